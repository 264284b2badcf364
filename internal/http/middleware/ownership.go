package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/config"
	"github.com/craftconnect/authsvc/internal/http/api"
)

// OwnershipMW enforces the per-route resource ownership table. Routes
// without a matching rule pass through untouched; admins bypass ownership
// but not the cross-user body check on write operations.
type OwnershipMW struct {
	rules       []config.AccessRule
	addressRepo domain.AddressRepository
	artisanRepo domain.ArtisanProfileRepository
}

// NewOwnershipMW creates the ownership middleware.
func NewOwnershipMW(rules []config.AccessRule, addressRepo domain.AddressRepository, artisanRepo domain.ArtisanProfileRepository) *OwnershipMW {
	return &OwnershipMW{rules: rules, addressRepo: addressRepo, artisanRepo: artisanRepo}
}

// Enforce returns the ownership gate handler.
func (mw *OwnershipMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		rule, ok := mw.matchRule(c)
		if !ok {
			c.Next()
			return
		}

		userID, ok := CurrentUserID(c)
		if !ok {
			api.Abort(c, domain.ErrUnauthenticated)
			return
		}

		if rule.OwnerParam != "" && !IsAdmin(c) {
			ownerID, err := mw.resolveOwner(c, rule)
			if err != nil {
				api.Abort(c, err)
				return
			}
			if ownerID != userID {
				api.Abort(c, domain.ErrResourceAccessDenied)
				return
			}
		}

		if rule.CrossUserField != "" {
			if err := checkCrossUserField(c, rule.CrossUserField, userID); err != nil {
				api.Abort(c, err)
				return
			}
		}

		c.Next()
	}
}

func (mw *OwnershipMW) matchRule(c *gin.Context) (config.AccessRule, bool) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	for _, rule := range mw.rules {
		if rule.Matches(c.Request.Method, path) {
			return rule, true
		}
	}
	return config.AccessRule{}, false
}

// resolveOwner maps the rule's owner parameter to the user that owns the
// addressed resource. For resource-scoped routes the path carries the
// resource id and the owning user is looked up through the repository.
func (mw *OwnershipMW) resolveOwner(c *gin.Context, rule config.AccessRule) (uint, error) {
	raw := extractRequestValue(c, rule.OwnerSource, rule.OwnerParam)
	if raw == "" {
		return 0, domain.ErrResourceAccessDenied
	}
	id64, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, domain.ErrValidationFailed
	}
	id := uint(id64)

	switch rule.ResourceType {
	case "address":
		addr, err := mw.addressRepo.FindByID(c.Request.Context(), id)
		if err != nil {
			return 0, err
		}
		return addr.UserID, nil
	case "artisanProfile":
		profile, err := mw.artisanRepo.FindByID(c.Request.Context(), id)
		if err != nil {
			return 0, err
		}
		return profile.UserID, nil
	default:
		// The parameter itself is a user id.
		return id, nil
	}
}

// extractRequestValue pulls a named value from the configured request
// location. Body reads restore c.Request.Body for downstream handlers.
func extractRequestValue(c *gin.Context, source, name string) string {
	switch source {
	case "", "path":
		return c.Param(name)
	case "query":
		return c.Query(name)
	case "header":
		return c.GetHeader(name)
	case "body":
		body, ok := peekJSONBody(c)
		if !ok {
			return ""
		}
		if v, found := body[name]; found {
			switch val := v.(type) {
			case string:
				return val
			case float64:
				return strconv.FormatUint(uint64(val), 10)
			}
		}
	}
	return ""
}

// checkCrossUserField rejects write payloads that reference a user other
// than the authenticated caller.
func checkCrossUserField(c *gin.Context, field string, userID uint) error {
	body, ok := peekJSONBody(c)
	if !ok {
		return nil
	}
	v, found := body[field]
	if !found {
		return nil
	}
	switch val := v.(type) {
	case string:
		if val != strconv.FormatUint(uint64(userID), 10) {
			return domain.ErrCrossUserAccessDenied
		}
	case float64:
		if uint(val) != userID {
			return domain.ErrCrossUserAccessDenied
		}
	default:
		return domain.ErrCrossUserAccessDenied
	}
	return nil
}

func peekJSONBody(c *gin.Context) (map[string]interface{}, bool) {
	if c.Request.Body == nil {
		return nil, false
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, false
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
	if len(raw) == 0 {
		return nil, false
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false
	}
	return body, true
}
