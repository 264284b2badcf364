package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// AccessRule declares the per-route security posture consumed by the
// middleware pipeline: which roles may call it, where the owning user id
// lives in the request, and whether verified identity is required.
type AccessRule struct {
	Name            string   `yaml:"name"`
	Method          string   `yaml:"method"`
	Path            string   `yaml:"path"`
	Roles           []string `yaml:"roles"`
	OwnerParam      string   `yaml:"ownerParam"`
	OwnerSource     string   `yaml:"ownerSource"` // "path", "query" or "body"
	RequireIdentity bool     `yaml:"requireIdentity"`
	ResourceType    string   `yaml:"resourceType"`
	CrossUserField  string   `yaml:"crossUserField"`
	Description     string   `yaml:"description,omitempty"`
}

// Matches reports whether the rule applies to the request. Path patterns
// use gin-style ":param" segments.
func (r AccessRule) Matches(method, routePath string) bool {
	if !strings.EqualFold(r.Method, method) && r.Method != "*" {
		return false
	}
	return r.Path == routePath || pathPatternMatch(r.Path, routePath)
}

var paramSegment = regexp.MustCompile(`:[^/]+`)

func pathPatternMatch(pattern, routePath string) bool {
	if !strings.Contains(pattern, ":") {
		return pattern == routePath
	}
	expr := "^" + paramSegment.ReplaceAllString(pattern, `[^/]+`) + "$"
	matched, err := regexp.MatchString(expr, routePath)
	return err == nil && matched
}

// LoadAccessRules reads the route security table. A missing file yields
// an empty table rather than an error so tests can run without one.
func LoadAccessRules(path string) ([]AccessRule, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read access rules file: %w", err)
	}

	var doc struct {
		Rules []AccessRule `yaml:"accessRules"`
	}
	if err := yaml.Unmarshal(bytes, &doc); err != nil {
		return nil, fmt.Errorf("could not parse access rules yaml: %w", err)
	}
	return doc.Rules, nil
}
