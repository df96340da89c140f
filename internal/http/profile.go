package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/criminaldb/internal/auth"
	"github.com/mrlokans/criminaldb/internal/settingsstore"
)

type officialRequest struct {
	Username *string `json:"username"`
}

// ProfileController reads and sets the official account marker.
type ProfileController struct {
	store *settingsstore.Store
}

func NewProfileController(store *settingsstore.Store) *ProfileController {
	return &ProfileController{store: store}
}

// Official handles GET /api/profile/official.
func (pc *ProfileController) Official(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username": pc.store.OfficialAccount(),
		"official": pc.store.IsOfficial(auth.GetUsername(c)),
	})
}

// SetOfficial handles PUT /api/profile/official. Without a username in the
// body the signed-in user is marked.
func (pc *ProfileController) SetOfficial(c *gin.Context) {
	var req officialRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	username := auth.GetUsername(c)
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
	}

	if err := pc.store.SetOfficialAccount(username); err != nil {
		log.WithError(err).Error("Failed to save official account")
		respondError(c, http.StatusInternalServerError, "failed to save official account", "store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}
