package dto

import (
	"encoding/json"
	"fmt"
)

const configField = "themeConfig"

var paletteColors = []string{"primary", "secondary", "error", "warning", "info", "success"}

var typographyNumbers = []string{
	"fontSize", "fontWeightLight", "fontWeightRegular", "fontWeightMedium", "fontWeightBold",
}

// CheckThemeConfig 只校验已知键的形状，未知键原样放行
func CheckThemeConfig(raw json.RawMessage) []FieldError {
	var cfg map[string]any
	if err := json.Unmarshal(raw, &cfg); err != nil || cfg == nil {
		return []FieldError{{Field: configField, Message: "themeConfig must be a JSON object"}}
	}

	c := &configChecker{}
	if v, ok := cfg["palette"]; ok {
		c.palette(v)
	}
	if v, ok := cfg["typography"]; ok {
		if t, ok := c.object("typography", v); ok {
			c.optString("typography.fontFamily", t, "fontFamily")
			for _, k := range typographyNumbers {
				c.optNumber("typography."+k, t, k)
			}
		}
	}
	if v, ok := cfg["shape"]; ok {
		if s, ok := c.object("shape", v); ok {
			c.optNumber("shape.borderRadius", s, "borderRadius")
		}
	}
	c.optNumber("spacing", cfg, "spacing")
	if v, ok := cfg["shadows"]; ok {
		c.stringList("shadows", v)
	}
	for _, k := range []string{"transitions", "zIndex", "breakpoints", "components"} {
		if v, ok := cfg[k]; ok {
			c.object(k, v)
		}
	}
	return c.errs
}

type configChecker struct{ errs []FieldError }

func (c *configChecker) fail(path, msg string) {
	f := configField + "." + path
	c.errs = append(c.errs, FieldError{Field: f, Message: f + " " + msg})
}

func (c *configChecker) object(path string, v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "must be an object")
	}
	return m, ok
}

func (c *configChecker) optString(path string, m map[string]any, key string) {
	if v, ok := m[key]; ok {
		if _, ok := v.(string); !ok {
			c.fail(path, "must be a string")
		}
	}
}

func (c *configChecker) optNumber(path string, m map[string]any, key string) {
	if v, ok := m[key]; ok {
		if _, ok := v.(float64); !ok {
			c.fail(path, "must be a number")
		}
	}
}

func (c *configChecker) stringList(path string, v any) {
	list, ok := v.([]any)
	if !ok {
		c.fail(path, "must be a list of strings")
		return
	}
	for i, item := range list {
		if _, ok := item.(string); !ok {
			c.fail(fmt.Sprintf("%s[%d]", path, i), "must be a string")
		}
	}
}

func (c *configChecker) palette(v any) {
	p, ok := c.object("palette", v)
	if !ok {
		return
	}
	if mode, ok := p["mode"]; ok {
		if s, _ := mode.(string); s != "light" && s != "dark" {
			c.fail("palette.mode", "must be one of: light dark")
		}
	}
	for _, name := range paletteColors {
		raw, ok := p[name]
		if !ok {
			continue
		}
		path := "palette." + name
		color, ok := c.object(path, raw)
		if !ok {
			continue
		}
		if s, _ := color["main"].(string); s == "" {
			c.fail(path+".main", "is required")
		}
		for _, k := range []string{"dark", "light", "contrastText"} {
			c.optString(path+"."+k, color, k)
		}
	}
}
