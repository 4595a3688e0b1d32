package defecttypes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
)

// RegisterRoutes mounts the static defect type catalog.
func RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/defect-types", List)
}

// List godoc
// @Summary List defect types
// @Description Static catalog of defect types with their tree-part category.
// @Tags DefectTypes
// @Produce json
// @Success 200 {array} domain.DefectTypeItem
// @Router /defect-types [get]
func List(c *gin.Context) {
	c.JSON(http.StatusOK, domain.DefectTypeCatalog)
}
