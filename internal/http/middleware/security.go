package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
)

// Attack signatures for the malicious-request gate. This is a deny-list
// of known patterns, not a parser: best-effort screening, not a proof of
// safety.
var sqlInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i);\s*(drop|delete|truncate|alter|insert|update)\b`),
	regexp.MustCompile(`(?i)\bunion\s+select\b`),
	regexp.MustCompile(`--\s*$`),
	regexp.MustCompile(`(?i)'\s*or\s+'?1'?\s*=\s*'?1`),
}

const pathTraversalSequence = "../"

// DetectMalicious scans the path, query string and JSON body for known
// attack signatures. Matching requests fail SECURITY_VIOLATION before
// any downstream lookup executes.
func DetectMalicious() gin.HandlerFunc {
	return func(c *gin.Context) {
		if violatesPath(c.Request.URL.Path) || violatesQuery(c.Request.URL.Query()) {
			api.Abort(c, domain.ErrSecurityViolation)
			return
		}

		if c.Request.Body != nil && c.Request.ContentLength != 0 && isJSONRequest(c) {
			bodyBytes, err := io.ReadAll(c.Request.Body)
			if err != nil {
				api.Abort(c, domain.ErrSecurityViolation)
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

			var body interface{}
			if err := json.Unmarshal(bodyBytes, &body); err == nil {
				if violatesValue(body) {
					api.Abort(c, domain.ErrSecurityViolation)
					return
				}
			}
		}

		c.Next()
	}
}

func violatesPath(path string) bool {
	if strings.Contains(path, pathTraversalSequence) {
		return true
	}
	if unescaped, err := url.PathUnescape(path); err == nil && strings.Contains(unescaped, pathTraversalSequence) {
		return true
	}
	return false
}

func violatesQuery(values url.Values) bool {
	for _, vs := range values {
		for _, v := range vs {
			if violatesString(v) {
				return true
			}
		}
	}
	return false
}

// violatesValue walks a decoded JSON document. Object keys beginning
// with "$" are treated as NoSQL operator injection; string values are
// matched against the SQL signature set.
func violatesValue(v interface{}) bool {
	switch val := v.(type) {
	case map[string]interface{}:
		for key, nested := range val {
			if strings.HasPrefix(key, "$") {
				return true
			}
			if violatesValue(nested) {
				return true
			}
		}
	case []interface{}:
		for _, nested := range val {
			if violatesValue(nested) {
				return true
			}
		}
	case string:
		return violatesString(val)
	}
	return false
}

func violatesString(s string) bool {
	if strings.Contains(s, pathTraversalSequence) {
		return true
	}
	for _, pattern := range sqlInjectionPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

func isJSONRequest(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Content-Type"), "application/json")
}
