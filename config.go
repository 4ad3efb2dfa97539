package parsec

import (
	"fmt"
	"sort"
)

// Config is a small typed-value map: keys are dotted paths, values
// are typed and rendered uniformly by Debug.
type Config map[string]*cfgVal

// NewConfig returns the defaults used by the grammar compiler and the
// input layer when no explicit Config is supplied.
func NewConfig() *Config {
	c := make(Config)
	c.SetBool("grammar.predictive", false)
	c.SetBool("grammar.whitespace_sensitive", false)
	c.SetInt("input.buffer.min_window", 64)
	return &c
}

func (c *Config) SetBool(key string, v bool) { (*c)[key] = &cfgVal{typ: cfgBool, b: v} }
func (c *Config) SetInt(key string, v int)   { (*c)[key] = &cfgVal{typ: cfgInt, i: v} }
func (c *Config) SetString(key, v string)    { (*c)[key] = &cfgVal{typ: cfgString, s: v} }

func (c *Config) Bool(key string) bool {
	if v, ok := (*c)[key]; ok && v.typ == cfgBool {
		return v.b
	}
	return false
}

func (c *Config) Int(key string) int {
	if v, ok := (*c)[key]; ok && v.typ == cfgInt {
		return v.i
	}
	return 0
}

func (c *Config) String(key string) string {
	if v, ok := (*c)[key]; ok && v.typ == cfgString {
		return v.s
	}
	return ""
}

// Debug prints every key, sorted, with its value — a plain porcelain
// dumper for troubleshooting, not a formatter for end users.
func (c *Config) Debug() {
	keys := make([]string, 0, len(*c))
	width := 0
	for k := range *c {
		keys = append(keys, k)
		if len(k) > width {
			width = len(k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-*s : %s\n", width, k, (*c)[k].String())
	}
}

type cfgValType int

const (
	cfgUndefined cfgValType = iota
	cfgBool
	cfgInt
	cfgString
)

type cfgVal struct {
	typ cfgValType
	b   bool
	i   int
	s   string
}

func (v *cfgVal) String() string {
	switch v.typ {
	case cfgBool:
		return fmt.Sprintf("%t", v.b)
	case cfgInt:
		return fmt.Sprintf("%d", v.i)
	case cfgString:
		return v.s
	default:
		return "undefined"
	}
}
