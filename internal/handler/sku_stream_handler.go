package handler

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/middleware"
	"github.com/sellerhq/seller_api/internal/service"
	"github.com/sellerhq/seller_api/internal/sku"
	"github.com/sellerhq/seller_api/internal/sse"
	"github.com/sellerhq/seller_api/internal/utils"
)

// SKUStreamHandler drives live SKU validation for the dashboard. The browser
// opens one SSE stream and posts keystrokes; each SKU input field gets its own
// debounced validation controller on this side, and every state transition is
// pushed back over the stream.
type SKUStreamHandler struct {
	hub         *sse.Hub
	skuService  *service.SKUService
	authService *service.AuthService
	quiet       time.Duration

	mu      sync.Mutex
	streams map[string]*validationStream
}

// validationStream holds the controllers owned by one connected client.
// Exactly one controller exists per input field, and it is torn down with the
// stream.
type validationStream struct {
	token       string
	controllers map[string]*sku.Controller
}

// NewSKUStreamHandler constructs a SKUStreamHandler. quiet is the keystroke
// quiet period applied to every field controller.
func NewSKUStreamHandler(hub *sse.Hub, skuService *service.SKUService, authService *service.AuthService, quiet time.Duration) *SKUStreamHandler {
	return &SKUStreamHandler{
		hub:         hub,
		skuService:  skuService,
		authService: authService,
		quiet:       quiet,
		streams:     make(map[string]*validationStream),
	}
}

// Stream handles GET /v1/products/sku-validation/stream?token=<jwt>
// EventSource API cannot set custom headers, so the token is passed via query
// param.
func (h *SKUStreamHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.Error(c, 401, "UNAUTHENTICATED", "Missing token query parameter")
		return
	}
	vendor, err := h.authService.Resolve(c.Request.Context(), token)
	if err != nil || vendor == nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	clientID := fmt.Sprintf("vendor-%d-%d", vendor.ID, time.Now().UnixNano())

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID)
	h.mu.Lock()
	h.streams[clientID] = &validationStream{
		token:       token,
		controllers: make(map[string]*sku.Controller),
	}
	h.mu.Unlock()

	defer func() {
		h.teardown(clientID)
		h.hub.Unregister(clientID)
	}()

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Int("vendor_id", vendor.ID).Msg("SKU validation stream started")

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent("validation", string(data))
			return true
		case <-time.After(30 * time.Second):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// inputPayload is one observed keystroke for a SKU input field.
type inputPayload struct {
	ClientID                string `json:"clientId" binding:"required"`
	FieldID                 string `json:"fieldId" binding:"required"`
	SKU                     string `json:"sku"`
	ExcludeProductID        int    `json:"excludeProductId"`
	ExcludeVariationID      int    `json:"excludeVariationId"`
	CheckDisabledVariations bool   `json:"checkDisabledVariations"`
	ExcludeVariationSKU     string `json:"excludeVariationSku"`
}

// Input handles POST /v1/products/sku-validation/input. It feeds a keystroke
// into the field's controller, creating the controller on first sight.
func (h *SKUStreamHandler) Input(c *gin.Context) {
	var payload inputPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	ctrl, ok := h.controllerFor(payload.ClientID, payload.FieldID, middleware.GetToken(c))
	if !ok {
		utils.Error(c, 404, "UNKNOWN_STREAM", "No open validation stream for this client")
		return
	}

	ctrl.Observe(sku.Request{
		SKU:                     payload.SKU,
		ExcludeProductID:        payload.ExcludeProductID,
		ExcludeVariationID:      payload.ExcludeVariationID,
		CheckDisabledVariations: payload.CheckDisabledVariations,
		ExcludeVariationSKU:     payload.ExcludeVariationSKU,
	})
	utils.Success(c, 202, "Keystroke accepted", nil)
}

// controllerFor returns the controller owning a (client, field) input,
// creating it if the stream is open. The session token captured at stream
// setup is used for the checks, so a stream never outlives its credential.
func (h *SKUStreamHandler) controllerFor(clientID, fieldID, token string) (*sku.Controller, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stream, ok := h.streams[clientID]
	if !ok {
		return nil, false
	}
	if ctrl, ok := stream.controllers[fieldID]; ok {
		return ctrl, true
	}

	checkToken := stream.token
	if token != "" {
		checkToken = token
	}
	notify := func(snapshot sku.Snapshot) {
		h.hub.Send(clientID, &sse.ValidationEvent{
			FieldID:   fieldID,
			State:     snapshot.State,
			Message:   snapshot.Message,
			Result:    snapshot.Result,
			Timestamp: time.Now(),
		})
	}
	ctrl := sku.NewController(h.quiet, h.skuService.Checker(checkToken), notify)
	stream.controllers[fieldID] = ctrl
	return ctrl, true
}

// teardown closes every controller owned by a disconnected client. Pending
// timers and in-flight checks are cancelled; nothing updates after this.
func (h *SKUStreamHandler) teardown(clientID string) {
	h.mu.Lock()
	stream, ok := h.streams[clientID]
	delete(h.streams, clientID)
	h.mu.Unlock()

	if !ok {
		return
	}
	for _, ctrl := range stream.controllers {
		ctrl.Close()
	}
}
