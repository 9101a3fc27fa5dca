// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javiei/proomtb-backend/internal/session"
	"github.com/javiei/proomtb-backend/internal/utils"
)

// AuthHandler is the ingress for identity-provider session notifications
// and the read side of the bridge. No credential ever passes through here;
// sign-in itself happens at the provider.
type AuthHandler struct {
	bridge   *session.Bridge
	verifier *session.TokenVerifier
}

type SessionEventRequest struct {
	Type        string `json:"type" validate:"required"`
	AccessToken string `json:"access_token,omitempty"`
}

func NewAuthHandler(bridge *session.Bridge, verifier *session.TokenVerifier) *AuthHandler {
	return &AuthHandler{
		bridge:   bridge,
		verifier: verifier,
	}
}

// POST /auth/events
func (h *AuthHandler) PostEvent(c *gin.Context) {
	var req SessionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	kind := session.EventKind(req.Type)
	switch kind {
	case session.EventSignedIn, session.EventTokenRefreshed:
		sess, err := h.verifier.Verify(req.AccessToken)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid or expired session token")
			return
		}
		h.bridge.HandleEvent(c.Request.Context(), session.Event{Kind: kind, Session: sess})
	case session.EventSignedOut:
		h.bridge.HandleEvent(c.Request.Context(), session.Event{Kind: kind})
	default:
		utils.BadRequestResponse(c, "Unknown session event type", nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"session": h.bridge.Snapshot(),
	})
}

// GET /auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"session": h.bridge.Snapshot(),
	})
}
