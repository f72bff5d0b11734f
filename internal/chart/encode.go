// File path: internal/chart/encode.go
package chart

import (
	"bytes"
	"encoding/base64"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/ananyap-codes/TDSproj2/internal/common"
)

// renderFunc draws a chart at the given pixel dimensions.
type renderFunc func(w, h int) ([]byte, error)

// encodeBudgeted renders once at full size and, when the PNG exceeds the
// byte budget, retries a single time at half resolution. Two attempts, not
// an iterative search: the smaller result is returned even if still over.
func encodeBudgeted(draw renderFunc, opts Options) (string, error) {
	data, err := draw(opts.Width, opts.Height)
	if err != nil {
		return "", err
	}
	if len(data) > opts.MaxBytes {
		common.Logger().Debug("chart: over byte budget, retrying at half resolution",
			"bytes", len(data), "budget", opts.MaxBytes)
		if retry, err := draw(opts.Width/2, opts.Height/2); err == nil && len(retry) < len(data) {
			data = retry
		}
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

func renderPNG(c interface {
	Render(chart.RendererProvider, io.Writer) error
}) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
