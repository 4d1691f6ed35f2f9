package info

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

// UIType names a bundled document viewer.
type UIType string

const (
	UIStoplight UIType = "stoplight"
	UIScalar    UIType = "scalar"
	UISwaggerUI UIType = "swaggerui"
	UIRedoc     UIType = "redoc"
)

//go:embed assets/*.html
var assets embed.FS

var (
	templateStoplight = mustViewer(UIStoplight)
	templateScalar    = mustViewer(UIScalar)
	templateSwaggerUI = mustViewer(UISwaggerUI)
	templateRedoc     = mustViewer(UIRedoc)
)

func mustViewer(ui UIType) *template.Template {
	return template.Must(template.ParseFS(assets, "assets/"+string(ui)+".html"))
}

func templateFor(ui UIType) *template.Template {
	switch ui {
	case UIScalar:
		return templateScalar
	case UISwaggerUI:
		return templateSwaggerUI
	case UIRedoc:
		return templateRedoc
	default:
		return templateStoplight
	}
}

// ParseUIType maps a configuration value onto a UIType. The empty string
// selects UIStoplight.
func ParseUIType(s string) (UIType, error) {
	switch ui := UIType(strings.ToLower(strings.TrimSpace(s))); ui {
	case "":
		return UIStoplight, nil
	case UIStoplight, UIScalar, UISwaggerUI, UIRedoc:
		return ui, nil
	default:
		return "", fmt.Errorf("info: unknown ui type %q", s)
	}
}
