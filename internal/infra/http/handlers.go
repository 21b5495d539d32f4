package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tenantd/internal/domain"
	"tenantd/internal/logger"
	"tenantd/internal/usecase"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type tenantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
	LogoURL   string `json:"logo_url,omitempty"`
}

type userResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type principalResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Super bool   `json:"super"`
}

type sessionResponse struct {
	LoggedIn       bool               `json:"logged_in"`
	UserID         string             `json:"user_id,omitempty"`
	TenantID       *string            `json:"tenant_id,omitempty"`
	ActiveTenantID string             `json:"active_tenant_id,omitempty"`
	Principal      *principalResponse `json:"principal,omitempty"`
}

type brandingResponse struct {
	Active   bool   `json:"active"`
	TenantID string `json:"tenant_id,omitempty"`
	Name     string `json:"name"`
	LogoURL  string `json:"logo_url"`
	LogoAlt  string `json:"logo_alt"`
	Title    string `json:"title,omitempty"`
}

type switcherOptionResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type switcherResponse struct {
	Hidden  bool                     `json:"hidden"`
	Options []switcherOptionResponse `json:"options"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id"`
}

type activeTenantRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
}

type tenantRequest struct {
	Name      string `json:"name" binding:"required"`
	AccountID string `json:"account_id"`
	LogoURL   string `json:"logo_url"`
}

type tenantPatchRequest struct {
	Name      *string `json:"name"`
	AccountID *string `json:"account_id"`
	LogoURL   *string `json:"logo_url"`
}

type inviteRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

type userPatchRequest struct {
	TenantID *string `json:"tenant_id"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if !s.allowLogin(c, req.Email) {
		return
	}
	p, err := s.console.Login(c.Request.Context(), domain.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		TenantID: req.TenantID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPrincipalResponse(p))
}

// allowLogin writes the 429 itself when the attempt is over budget.
func (s *Server) allowLogin(c *gin.Context, email string) bool {
	if s.rateLimiter == nil || s.rateLimitRequests <= 0 {
		return true
	}
	decision, err := s.rateLimiter.Allow(c.Request.Context(), domain.LoginAttemptKey(email), s.rateLimitRequests, s.rateLimitWindow)
	if err != nil {
		s.log.Error("login rate limiter failed", "err", err)
		writeErrorCode(c, http.StatusServiceUnavailable, "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
		return false
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if decision.Allowed {
		return true
	}
	retry := time.Until(decision.ResetAt)
	if retry < time.Second {
		retry = time.Second
	}
	c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second)/time.Second)))
	writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts")
	return false
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.console.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSession(c *gin.Context) {
	ctx := c.Request.Context()
	sess, err := s.console.Session(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	active, err := s.console.ActiveTenantID(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	out := sessionResponse{ActiveTenantID: active}
	if sess != nil {
		p, err := s.console.CurrentPrincipal(ctx)
		if err != nil {
			writeError(c, err)
			return
		}
		out.UserID = sess.UserID
		out.TenantID = sess.TenantID
		if p != nil {
			out.LoggedIn = true
			pr := buildPrincipalResponse(p)
			out.Principal = &pr
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSetActiveTenant(c *gin.Context) {
	var req activeTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if err := s.console.SetActiveTenant(c.Request.Context(), req.TenantID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_tenant_id": req.TenantID})
}

func (s *Server) handleListTenants(c *gin.Context) {
	tenants, err := s.console.ListTenants(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildTenantResponses(tenants))
}

func (s *Server) handleAccessibleTenants(c *gin.Context) {
	tenants, err := s.console.AccessibleTenants(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildTenantResponses(tenants))
}

func (s *Server) handleGetTenant(c *gin.Context) {
	t, err := s.console.GetTenant(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if t == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, buildTenantResponse(*t))
}

func (s *Server) handleCreateTenant(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	id, err := s.console.CreateTenant(c.Request.Context(), domain.TenantInput{
		Name:      req.Name,
		AccountID: req.AccountID,
		LogoURL:   req.LogoURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildTenantResponse(domain.Tenant{
		ID:        id,
		Name:      req.Name,
		AccountID: req.AccountID,
		LogoURL:   req.LogoURL,
	}))
}

func (s *Server) handleUpdateTenant(c *gin.Context) {
	var req tenantPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	ctx := c.Request.Context()
	id := c.Param("tenant_id")
	ok, err := s.console.UpdateTenant(ctx, id, domain.TenantPatch{
		Name:      req.Name,
		AccountID: req.AccountID,
		LogoURL:   req.LogoURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}
	t, err := s.console.GetTenant(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if t == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, buildTenantResponse(*t))
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.console.ListUsers(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, buildUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleInviteUser(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	u, err := s.console.InviteUser(c.Request.Context(), domain.InviteInput{
		TenantID: c.Param("tenant_id"),
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildUserResponse(u))
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	patch := domain.UserPatch{TenantID: req.TenantID, Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		patch.Status = &status
	}
	ok, err := s.console.UpdateUser(c.Request.Context(), c.Param("user_id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	removed, err := s.console.DeleteUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		writeError(c, domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleListPermissions answers for ?role= when given, otherwise for the
// current principal.
func (s *Server) handleListPermissions(c *gin.Context) {
	role, err := s.queryRole(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role, "permissions": s.console.PermissionsFor(role)})
}

func (s *Server) handleCheckPermission(c *gin.Context) {
	role, err := s.queryRole(c)
	if err != nil {
		writeError(c, err)
		return
	}
	perm := c.Param("permission")
	c.JSON(http.StatusOK, gin.H{"role": role, "permission": perm, "allowed": s.console.CanRole(perm, role)})
}

func (s *Server) queryRole(c *gin.Context) (domain.Role, error) {
	if role, ok := c.GetQuery("role"); ok {
		return domain.Role(role), nil
	}
	p, err := s.console.CurrentPrincipal(c.Request.Context())
	if err != nil {
		return "", err
	}
	return domain.RoleOf(p), nil
}

func (s *Server) handleBranding(c *gin.Context) {
	b, active, err := s.console.ActiveBranding(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !active {
		b = usecase.BrandingFor(nil, s.console.Options().Brand)
	}
	out := brandingResponse{
		Active:   active,
		TenantID: b.TenantID,
		Name:     b.Name,
		LogoURL:  b.LogoURL,
		LogoAlt:  b.LogoAlt,
	}
	if page := c.Query("page"); page != "" {
		name := ""
		if active {
			name = b.Name
		}
		out.Title = usecase.PageTitle(page, name)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSwitcher(c *gin.Context) {
	autoHide := c.DefaultQuery("auto_hide", "true") != "false"
	sw, err := s.console.CompanySwitcher(c.Request.Context(), autoHide)
	if err != nil {
		writeError(c, err)
		return
	}
	out := switcherResponse{Hidden: sw.Hidden, Options: make([]switcherOptionResponse, 0, len(sw.Options))}
	for _, o := range sw.Options {
		out.Options = append(out.Options, switcherOptionResponse{ID: o.ID, Label: o.Label, Selected: o.Selected})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleBootstrap(c *gin.Context) {
	ok, err := s.console.Bootstrap(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_created": ok})
}

func buildPrincipalResponse(p domain.Principal) principalResponse {
	_, super := p.(domain.SuperAdmin)
	return principalResponse{
		ID:    p.ID(),
		Name:  p.Name(),
		Email: p.Email(),
		Role:  string(p.Role()),
		Super: super,
	}
}

func buildTenantResponse(t domain.Tenant) tenantResponse {
	return tenantResponse{ID: t.ID, Name: t.Name, AccountID: t.AccountID, LogoURL: t.LogoURL}
}

func buildTenantResponses(tenants []domain.Tenant) []tenantResponse {
	out := make([]tenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, buildTenantResponse(t))
	}
	return out
}

func buildUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		TenantID: u.TenantID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
		Status:   string(u.Status),
	}
}

func writeError(c *gin.Context, err error) {
	if forbidden, ok := domain.IsForbidden(err); ok {
		c.JSON(http.StatusForbidden, errorResponse{
			Code:    "FORBIDDEN",
			Message: forbidden.Error(),
			Details: map[string]any{"permission": forbidden.Permission},
		})
		return
	}
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrUserNotFound):
		status, code = http.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSeedDisabled):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidRecord):
		status, code = http.StatusBadRequest, "INVALID_RECORD"
	case errors.Is(err, domain.ErrCorruptRecord):
		code = "CORRUPT_RECORD"
	}
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context(), logger.Discard()).Error("request failed", "code", code, "err", err)
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
