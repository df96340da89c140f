package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/criminaldb/internal/records"
	"github.com/mrlokans/criminaldb/internal/schema"
)

type valuesRequest struct {
	Values []string `json:"values"`
}

// RecordsResponse is the result of a read.
type RecordsResponse struct {
	Entity  schema.Entity    `json:"entity"`
	Fields  []string         `json:"fields"`
	Records []records.Record `json:"records"`
}

// RecordsController exposes the CRUD engine over every registered entity.
type RecordsController struct {
	engine *records.Engine
}

func NewRecordsController(engine *records.Engine) *RecordsController {
	return &RecordsController{engine: engine}
}

// entityParam resolves the :entity segment by entity or table name. Unknown
// names are passed through so the engine rejects them as validation errors.
func entityParam(c *gin.Context) schema.Entity {
	raw := c.Param("entity")
	if e, ok := schema.Lookup(raw); ok {
		return e
	}
	return schema.Entity(raw)
}

// splitFields parses a comma separated field list. Blank input selects all
// fields.
func splitFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// List handles GET /api/records/:entity?fields=Name,Age&id=3.
func (rc *RecordsController) List(c *gin.Context) {
	entity := entityParam(c)
	fields := splitFields(c.Query("fields"))

	rows, err := rc.engine.Read(c.Request.Context(), entity, fields, c.Query("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	if len(fields) == 0 {
		fields = schema.FieldsFor(entity)
	}
	c.JSON(http.StatusOK, RecordsResponse{Entity: entity, Fields: fields, Records: rows})
}

// Get handles GET /api/records/:entity/:id.
func (rc *RecordsController) Get(c *gin.Context) {
	record, err := rc.engine.Load(c.Request.Context(), entityParam(c), c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Create handles POST /api/records/:entity with {"values": [...]} in field
// order.
func (rc *RecordsController) Create(c *gin.Context) {
	var req valuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	entity := entityParam(c)
	id, err := rc.engine.Create(c.Request.Context(), entity, req.Values)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondCreated(c, gin.H{"entity": entity, "id": id})
}

// Update handles PUT /api/records/:entity/:id with {"values": [...]}.
func (rc *RecordsController) Update(c *gin.Context) {
	var req valuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := rc.engine.Update(c.Request.Context(), entityParam(c), c.Param("id"), req.Values); err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, "record updated")
}

// Delete handles DELETE /api/records/:entity/:id. A missing id is not an
// error; affected is 0.
func (rc *RecordsController) Delete(c *gin.Context) {
	affected, err := rc.engine.Delete(c.Request.Context(), entityParam(c), c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// Schema handles GET /api/schema.
func (rc *RecordsController) Schema(c *gin.Context) {
	entities := schema.Entities()
	out := make([]schema.Descriptor, 0, len(entities))
	for _, e := range entities {
		if d, ok := schema.Describe(e); ok {
			out = append(out, d)
		}
	}
	c.JSON(http.StatusOK, gin.H{"entities": out})
}

// EntitySchema handles GET /api/schema/:entity.
func (rc *RecordsController) EntitySchema(c *gin.Context) {
	entity, ok := schema.Lookup(c.Param("entity"))
	if !ok {
		respondError(c, http.StatusNotFound, "unknown entity", "not_found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entity": entity, "fields": schema.FieldsFor(entity)})
}

// Dashboard handles GET /api/dashboard. Tables that cannot be counted show 0.
func (rc *RecordsController) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"counts": rc.engine.Counts(c.Request.Context())})
}
