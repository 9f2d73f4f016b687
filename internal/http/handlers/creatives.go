package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/azulcreative/server/internal/creative"
	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/i18n"
	"github.com/azulcreative/server/pkg/zip"
)

type imageInputDTO struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Settings       domain.Settings `json:"settings"`
	Mood           string          `json:"mood,omitempty"`
	TextPosition   string          `json:"textPosition,omitempty"`
	NegativePrompt string          `json:"negativePrompt,omitempty"`
	ShowCTA        bool            `json:"showCta"`
	Count          int             `json:"count"`
	Logo           *imageInputDTO  `json:"logo,omitempty"`
	References     []imageInputDTO `json:"references,omitempty"`
}

type generateResponse struct {
	Creatives []domain.Creative `json:"creatives"`
	Gallery   []domain.Creative `json:"gallery"`
}

func decodeImageInput(dto imageInputDTO) (creative.ImageInput, error) {
	data, err := base64.StdEncoding.DecodeString(dto.Data)
	if err != nil {
		return creative.ImageInput{}, err
	}
	return creative.ImageInput{MimeType: dto.MimeType, Data: data}, nil
}

// GenerateCreatives runs one generation batch and saves every result to
// the user's gallery. The response carries both the fresh creatives and
// the reconciled gallery so the client can render either.
func (a *App) GenerateCreatives(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	if body.Settings.Description == "" || body.Settings.TextOnImage == "" {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}

	req := creative.Request{
		Settings:       body.Settings,
		Mood:           body.Mood,
		TextPosition:   body.TextPosition,
		NegativePrompt: body.NegativePrompt,
		ShowCTA:        body.ShowCTA,
		Count:          body.Count,
	}
	if body.Logo != nil {
		logo, err := decodeImageInput(*body.Logo)
		if err != nil {
			a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
			return
		}
		req.Logo = &logo
	}
	for _, dto := range body.References {
		ref, err := decodeImageInput(dto)
		if err != nil {
			a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
			return
		}
		req.References = append(req.References, ref)
	}

	creatives, err := a.Generator.Generate(r.Context(), req)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	userID := a.currentUserID(r)
	var items []domain.Creative
	for _, c := range creatives {
		items, err = a.Gallery.Save(r.Context(), userID, c)
		if err != nil {
			a.Logger.Warn().Err(err).Str("creative_id", c.ID).Msg("handler: gallery save degraded")
		}
	}

	a.json(w, http.StatusOK, generateResponse{Creatives: creatives, Gallery: items})
}

// ListCreatives returns the reconciled gallery.
func (a *App) ListCreatives(w http.ResponseWriter, r *http.Request) {
	items := a.Gallery.Fetch(r.Context(), a.currentUserID(r))
	a.json(w, http.StatusOK, items)
}

type captionRequest struct {
	Caption string `json:"caption"`
}

// UpdateCaption sets a caption on a gallery entry. The operation is
// best-effort against the cloud and never fails.
func (a *App) UpdateCaption(w http.ResponseWriter, r *http.Request) {
	var body captionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	a.Gallery.UpdateCaption(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), body.Caption)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCreative removes a gallery entry and returns the remaining
// gallery.
func (a *App) DeleteCreative(w http.ResponseWriter, r *http.Request) {
	items := a.Gallery.Delete(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	a.json(w, http.StatusOK, items)
}

// ExportGallery streams the gallery as a zip archive.
func (a *App) ExportGallery(w http.ResponseWriter, r *http.Request) {
	items := a.Gallery.Fetch(r.Context(), a.currentUserID(r))
	raw, err := zip.ArchiveGallery(items)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="gallery.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
