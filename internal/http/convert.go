package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contentmigrate/internal/richtext"
)

type ConvertRequest struct {
	HTML string `json:"html"`
}

type ConvertResponse struct {
	Mode   richtext.Mode    `json:"mode"`
	Blocks []richtext.Block `json:"blocks"`
}

type ConvertController struct {
	converter *richtext.Converter
	audit     AuditLog
}

func NewConvertController(converter *richtext.Converter, audit AuditLog) *ConvertController {
	if converter == nil {
		converter = richtext.NewConverter()
	}
	return &ConvertController{converter: converter, audit: audit}
}

// Convert handles POST /api/convert
// Converts an HTML fragment into blocks without storing anything.
func (cc *ConvertController) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	conv := cc.converter.ConvertDetailed(req.HTML)
	blocks := conv.Blocks
	if blocks == nil {
		blocks = []richtext.Block{}
	}

	if cc.audit != nil {
		cc.audit.LogConvert(string(conv.Mode), len(blocks))
	}

	c.JSON(http.StatusOK, ConvertResponse{Mode: conv.Mode, Blocks: blocks})
}
