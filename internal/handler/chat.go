package handler

import (
	"net/http"
	"strconv"

	"ledgerai/internal/apierror"
	"ledgerai/internal/dto"
	"ledgerai/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct{ svc service.ChatService }

func NewChatHandler(svc service.ChatService) *ChatHandler { return &ChatHandler{svc: svc} }

// CreateSession opens a new conversation.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSession(c.Request.Context(), req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not create session"))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSessions returns all conversations, most recently active first.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	resp, err := h.svc.ListSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list sessions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSession returns one conversation with its full message log.
func (h *ChatHandler) GetSession(c *gin.Context) {
	resp, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SendMessage runs one assistant turn. The reply may carry a pending draft;
// nothing touches the ledger until that draft is confirmed.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SendMessage(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmDraft applies the draft at the given message position. Confirming a
// missing or already-applied draft returns applied=false, not an error.
func (h *ChatHandler) ConfirmDraft(c *gin.Context) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid message position"))
		return
	}
	resp, err := h.svc.ConfirmDraft(c.Request.Context(), c.Param("id"), position)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
