package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/catalog"
	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/utils"
)

// CatalogHandler serves the static topic catalog and its generated
// learning-module structure.
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new handler instance.
func NewCatalogHandler(cat *catalog.Catalog, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register attaches the catalog endpoints.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/topics", h.listTopics)
	router.Get("/topics/:topicID/modules", h.listModules)
}

func (h *CatalogHandler) listTopics(c *fiber.Ctx) error {
	topics := h.catalog.Topics()
	response := make([]dto.TopicResponse, 0, len(topics))
	for _, topic := range topics {
		response = append(response, dto.TopicResponse{
			ID:          topic.ID,
			Name:        topic.Name,
			Color:       topic.Color,
			Weight:      topic.Weight,
			ModuleCount: topic.ModuleCount,
		})
	}

	return utils.SendSuccess(c, "topics retrieved", response)
}

func (h *CatalogHandler) listModules(c *fiber.Ctx) error {
	topicID := c.Params("topicID")
	modules, ok := h.catalog.Modules(topicID)
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "topic not found")
	}

	response := dto.TopicModulesResponse{
		TopicID:        topicID,
		CatalogVersion: h.catalog.Version(),
		Modules:        make([]dto.ModuleResponse, 0, len(modules)),
	}
	for _, module := range modules {
		outcomes := make([]string, 0, len(module.Outcomes))
		for _, outcome := range module.Outcomes {
			outcomes = append(outcomes, outcome.ID)
		}
		response.Modules = append(response.Modules, dto.ModuleResponse{ID: module.ID, Outcomes: outcomes})
	}

	return utils.SendSuccess(c, "modules retrieved", response)
}
