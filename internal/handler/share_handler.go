package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/babyline/internal/pkg/errcode"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
	"github.com/xxxsen/babyline/internal/pkg/response"
	"github.com/xxxsen/babyline/internal/service"
)

const (
	shareAttemptLimit  = 10
	shareAttemptWindow = time.Minute
)

type ShareHandler struct {
	shares         *service.ShareService
	attemptLimiter *shareAttemptLimiter
}

func NewShareHandler(shares *service.ShareService) *ShareHandler {
	return &ShareHandler{
		shares:         shares,
		attemptLimiter: newShareAttemptLimiter(shareAttemptLimit, shareAttemptWindow),
	}
}

// shareAttemptLimiter caps failed validations per token so a password on a
// link cannot be brute forced through the public endpoints. Entries expire on
// their own; successes reset the counter.
type shareAttemptLimiter struct {
	limit int
	cache *expirable.LRU[string, int]
}

func newShareAttemptLimiter(limit int, window time.Duration) *shareAttemptLimiter {
	return &shareAttemptLimiter{
		limit: limit,
		cache: expirable.NewLRU[string, int](10000, nil, window),
	}
}

func (l *shareAttemptLimiter) allow(token string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	count, _ := l.cache.Get(token)
	return count < l.limit
}

func (l *shareAttemptLimiter) fail(token string) {
	if l == nil {
		return
	}
	count, _ := l.cache.Get(token)
	l.cache.Add(token, count+1)
}

func (l *shareAttemptLimiter) reset(token string) {
	if l == nil {
		return
	}
	l.cache.Remove(token)
}

type createShareRequest struct {
	Password  string `json:"password"`
	ExpiresAt int64  `json:"expires_at"`
}

func (h *ShareHandler) Create(c *gin.Context) {
	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	share, err := h.shares.CreateShareLink(c.Request.Context(), getUserID(c), c.Param("id"), service.CreateShareInput{
		Password:  req.Password,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, share)
}

func (h *ShareHandler) List(c *gin.Context) {
	items, err := h.shares.ListShareLinks(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (h *ShareHandler) Revoke(c *gin.Context) {
	if err := h.shares.RevokeShareLink(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// sharePassword reads the viewer-supplied password. A header keeps it out of
// access logs; the query form exists for plain-link clients.
func sharePassword(c *gin.Context) string {
	if pw := c.GetHeader("X-Share-Password"); pw != "" {
		return pw
	}
	return c.Query("password")
}

func (h *ShareHandler) checkAttempts(c *gin.Context, token string) bool {
	if h.attemptLimiter.allow(token) {
		return true
	}
	logutil.GetLogger(c.Request.Context()).Warn("share validation attempts exhausted",
		zap.String("client_ip", c.ClientIP()))
	response.Error(c, errcode.ErrTooMany, "too many attempts")
	return false
}

func (h *ShareHandler) PublicGet(c *gin.Context) {
	token := c.Param("token")
	if !h.checkAttempts(c, token) {
		return
	}
	password := sharePassword(c)
	capability, err := h.shares.ValidateShareToken(c.Request.Context(), token, password)
	if err != nil {
		h.attemptLimiter.fail(token)
		handleError(c, err)
		return
	}
	h.attemptLimiter.reset(token)
	baby, err := h.shares.GetSharedBaby(c.Request.Context(), token, password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"baby_id":   capability.BabyID,
		"read_only": capability.ReadOnly,
		"baby":      baby,
	})
}

func (h *ShareHandler) PublicMeasurements(c *gin.Context) {
	token := c.Param("token")
	if !h.checkAttempts(c, token) {
		return
	}
	items, err := h.shares.ListSharedMeasurements(c.Request.Context(), token, sharePassword(c), queryLimit(c))
	if err != nil {
		if appErr.IsNotFound(err) {
			h.attemptLimiter.fail(token)
		}
		handleError(c, err)
		return
	}
	h.attemptLimiter.reset(token)
	response.Success(c, gin.H{"items": items})
}

func (h *ShareHandler) PublicPhotos(c *gin.Context) {
	token := c.Param("token")
	if !h.checkAttempts(c, token) {
		return
	}
	items, err := h.shares.ListSharedPhotos(c.Request.Context(), token, sharePassword(c), queryLimit(c))
	if err != nil {
		if appErr.IsNotFound(err) {
			h.attemptLimiter.fail(token)
		}
		handleError(c, err)
		return
	}
	h.attemptLimiter.reset(token)
	response.Success(c, gin.H{"items": items})
}

func queryLimit(c *gin.Context) uint {
	value := c.Query("limit")
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0
	}
	return uint(parsed)
}
