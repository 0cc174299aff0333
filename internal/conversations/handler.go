package conversations

import (
	"fmt"
	"net/http"

	"github.com/broddo-baggins/ovenai-insights/platform/httpkit"
	"github.com/broddo-baggins/ovenai-insights/platform/validator"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// Handler serves the demo conversation endpoints.
type Handler struct {
	store    *Store
	player   *Player
	relayer  *Relayer
	validate *validator.Validator
	baseURL  string
}

// NewHandler creates a demo conversations handler. baseURL is the public
// origin used to build QR deep links.
func NewHandler(store *Store, player *Player, relayer *Relayer, validate *validator.Validator, baseURL string) *Handler {
	return &Handler{
		store:    store,
		player:   player,
		relayer:  relayer,
		validate: validate,
		baseURL:  baseURL,
	}
}

// GetRandom plays a uniformly random flow for the requested language.
func (h *Handler) GetRandom(c *gin.Context) {
	lang, ok := h.parseLanguage(c)
	if !ok {
		return
	}

	flow, messages := h.player.PickRandom(lang)
	httpkit.OK(c, gin.H{
		"id":       flow.ID,
		"scenario": flow.Scenario,
		"messages": messages,
	})
}

// ListFlows lists the language's flows and opening hooks.
func (h *Handler) ListFlows(c *gin.Context) {
	lang, ok := h.parseLanguage(c)
	if !ok {
		return
	}

	httpkit.OK(c, gin.H{
		"flows": h.store.AllFlows(lang),
		"hooks": h.store.Hooks(lang),
	})
}

// GetByID plays a specific flow.
func (h *Handler) GetByID(c *gin.Context) {
	lang, ok := h.parseLanguage(c)
	if !ok {
		return
	}

	flow, messages, err := h.player.PickByID(lang, c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "conversation flow not found", nil)
		return
	}

	httpkit.OK(c, gin.H{
		"id":       flow.ID,
		"scenario": flow.Scenario,
		"messages": messages,
	})
}

// GetOpener returns the flow's derived opener metadata.
func (h *Handler) GetOpener(c *gin.Context) {
	lang, ok := h.parseLanguage(c)
	if !ok {
		return
	}

	info, err := h.player.DescribeOpener(lang, c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "conversation flow not found", nil)
		return
	}

	httpkit.OK(c, info)
}

// GetQR renders a PNG QR code encoding the flow's demo deep link, for
// putting on a slide so the audience can open the demo on their phones.
func (h *Handler) GetQR(c *gin.Context) {
	lang, ok := h.parseLanguage(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, found := h.store.flowByID(lang, id); !found {
		httpkit.Error(c, http.StatusNotFound, "conversation flow not found", nil)
		return
	}

	link := fmt.Sprintf("%s/demo/conversations/%s?language=%s", h.baseURL, id, lang)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to render QR code", nil)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

type relayRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Language string `json:"language"`
}

// PostRelay forwards the flow's agent messages to a real phone through
// the WhatsApp gateway.
func (h *Handler) PostRelay(c *gin.Context) {
	var req relayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "phone is required", nil)
		return
	}

	lang, err := ParseLanguage(req.Language)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	sent, err := h.relayer.Relay(c.Request.Context(), lang, c.Param("id"), req.Phone)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"relayed": sent})
}

func (h *Handler) parseLanguage(c *gin.Context) (Language, bool) {
	lang, err := ParseLanguage(c.Query("language"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return "", false
	}
	return lang, true
}
