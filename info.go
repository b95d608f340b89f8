package jadn

import (
	"regexp"
)

// Info is the schema metadata block.
type Info struct {
	Package     string            `json:"package" yaml:"package"`
	Version     string            `json:"version,omitempty" yaml:"version,omitempty"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Comment     string            `json:"comment,omitempty" yaml:"comment,omitempty"`
	Copyright   string            `json:"copyright,omitempty" yaml:"copyright,omitempty"`
	License     string            `json:"license,omitempty" yaml:"license,omitempty"`
	Imports     map[string]string `json:"imports,omitempty" yaml:"imports,omitempty"`
	Exports     []string          `json:"exports,omitempty" yaml:"exports,omitempty"`
	Config      *Config           `json:"config,omitempty" yaml:"config,omitempty"`
}

// Config carries the optional schema limits and naming rules. Absent values
// fall back to the defaults below; see Resolve.
type Config struct {
	MaxBinary   *int    `json:"$MaxBinary,omitempty" yaml:"$MaxBinary,omitempty"`
	MaxString   *int    `json:"$MaxString,omitempty" yaml:"$MaxString,omitempty"`
	MaxElements *int    `json:"$MaxElements,omitempty" yaml:"$MaxElements,omitempty"`
	FS          *string `json:"$FS,omitempty" yaml:"$FS,omitempty"`
	Sys         *string `json:"$Sys,omitempty" yaml:"$Sys,omitempty"`
	TypeName    *string `json:"$TypeName,omitempty" yaml:"$TypeName,omitempty"`
	FieldName   *string `json:"$FieldName,omitempty" yaml:"$FieldName,omitempty"`
	NSID        *string `json:"$NSID,omitempty" yaml:"$NSID,omitempty"`
}

// Defaults for Config values.
const (
	DefaultMaxBinary   = 255
	DefaultMaxString   = 255
	DefaultMaxElements = 100
	DefaultFS          = "/"
	DefaultSys         = "$"
	DefaultTypeName    = `^[A-Z][-$A-Za-z0-9]{0,63}$`
	DefaultFieldName   = `^[a-z][_A-Za-z0-9]{0,63}$`
	DefaultNSID        = `^[A-Za-z][A-Za-z0-9]{0,7}$`
)

// Limits is a Config with every default applied and patterns compiled.
type Limits struct {
	MaxBinary   int
	MaxString   int
	MaxElements int
	FS          string
	Sys         string
	TypeName    *regexp.Regexp
	FieldName   *regexp.Regexp
	NSID        *regexp.Regexp
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

// Resolve applies defaults. A nil Config resolves to all defaults.
func (c *Config) Resolve() (Limits, error) {
	if c == nil {
		c = &Config{}
	}
	l := Limits{
		MaxBinary:   intOr(c.MaxBinary, DefaultMaxBinary),
		MaxString:   intOr(c.MaxString, DefaultMaxString),
		MaxElements: intOr(c.MaxElements, DefaultMaxElements),
		FS:          stringOr(c.FS, DefaultFS),
		Sys:         stringOr(c.Sys, DefaultSys),
	}
	for _, v := range []struct {
		name string
		n    int
	}{{"$MaxBinary", l.MaxBinary}, {"$MaxString", l.MaxString}, {"$MaxElements", l.MaxElements}} {
		if v.n < 1 {
			return Limits{}, schemaErrorf("", "config %s must be positive, got %d", v.name, v.n)
		}
	}
	for _, v := range []struct {
		name string
		src  string
		dst  **regexp.Regexp
	}{
		{"$TypeName", stringOr(c.TypeName, DefaultTypeName), &l.TypeName},
		{"$FieldName", stringOr(c.FieldName, DefaultFieldName), &l.FieldName},
		{"$NSID", stringOr(c.NSID, DefaultNSID), &l.NSID},
	} {
		re, err := regexp.Compile(v.src)
		if err != nil {
			return Limits{}, &Error{Kind: KindSchema, Message: "config " + v.name + " is not a valid pattern", Cause: err}
		}
		*v.dst = re
	}
	return l, nil
}

func (i Info) clone() Info {
	out := i
	if i.Imports != nil {
		out.Imports = make(map[string]string, len(i.Imports))
		for k, v := range i.Imports {
			out.Imports[k] = v
		}
	}
	out.Exports = append([]string(nil), i.Exports...)
	if i.Config != nil {
		c := *i.Config
		out.Config = &c
	}
	return out
}
