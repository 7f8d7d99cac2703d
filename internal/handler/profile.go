package handler

import (
	"net/http"

	"ledgerai/internal/apierror"
	"ledgerai/internal/dto"
	"ledgerai/internal/model"
	"ledgerai/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the singleton business profile. Thin enough that it
// talks to the repository directly.
type ProfileHandler struct{ repo repository.ProfileRepository }

func NewProfileHandler(repo repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{repo: repo}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.repo.Get(c.Request.Context())
	if err != nil {
		// No profile yet — return an empty one rather than a 404.
		c.JSON(http.StatusOK, dto.ProfileResponse{Currency: "$"})
		return
	}
	c.JSON(http.StatusOK, profileToResponse(profile))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	profile := model.BusinessProfile{
		Name:      req.Name,
		Sector:    req.Sector,
		OwnerName: req.OwnerName,
		Address:   req.Address,
		Phone:     req.Phone,
		Currency:  req.Currency,
		TaxNumber: req.TaxNumber,
		TaxOffice: req.TaxOffice,
	}
	if profile.Currency == "" {
		profile.Currency = "$"
	}
	if err := h.repo.Save(c.Request.Context(), &profile); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not save profile"))
		return
	}
	c.JSON(http.StatusOK, profileToResponse(&profile))
}

func profileToResponse(p *model.BusinessProfile) dto.ProfileResponse {
	return dto.ProfileResponse{
		Name:      p.Name,
		Sector:    p.Sector,
		OwnerName: p.OwnerName,
		Address:   p.Address,
		Phone:     p.Phone,
		Currency:  p.Currency,
		TaxNumber: p.TaxNumber,
		TaxOffice: p.TaxOffice,
	}
}
