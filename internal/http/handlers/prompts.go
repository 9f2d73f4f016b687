package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/azulcreative/server/internal/creative"
	"github.com/azulcreative/server/internal/i18n"
)

type enhanceRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Style       string `json:"style"`
}

type enhanceResponse struct {
	Prompt string `json:"prompt"`
}

// EnhancePrompt rewrites a scene description via the text model.
func (a *App) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	var body enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Description == "" {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	prompt, err := a.Assistant.EnhancePrompt(r.Context(), body.Description, body.Category, body.Style)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, enhanceResponse{Prompt: prompt})
}

type socialCaptionRequest struct {
	Image     string `json:"image"`
	Niche     string `json:"niche"`
	Objective string `json:"objective"`
}

type socialCaptionResponse struct {
	Caption string `json:"caption"`
}

// GenerateSocialCaption writes an Instagram caption for a creative.
func (a *App) GenerateSocialCaption(w http.ResponseWriter, r *http.Request) {
	var body socialCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Image == "" {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	caption, err := a.Assistant.GenerateSocialCaption(r.Context(), body.Image, body.Niche, body.Objective)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, socialCaptionResponse{Caption: caption})
}

type brandAnalyzeRequest struct {
	Images []imageInputDTO `json:"images"`
}

// AnalyzeBrand extracts a visual identity from uploaded brand assets.
func (a *App) AnalyzeBrand(w http.ResponseWriter, r *http.Request) {
	var body brandAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Images) == 0 {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}

	images := make([]creative.ImageInput, 0, len(body.Images))
	for _, dto := range body.Images {
		img, err := decodeImageInput(dto)
		if err != nil {
			a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
			return
		}
		images = append(images, img)
	}

	profile, err := a.Assistant.AnalyzeBrandAssets(r.Context(), images)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profile)
}
