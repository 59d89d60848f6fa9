package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/doorline/internal/models"
	"github.com/example/doorline/internal/services"
)

// AssistantHandler serves the two natural-language chat endpoints. Upstream
// rate-limit and quota failures come back as HTTP 200 with a friendly message
// in the body, so the chat UI renders them instead of treating the call as a
// network failure.
type AssistantHandler struct {
	db     *gorm.DB
	openai *services.OpenAIService
}

// NewAssistantHandler constructs AssistantHandler.
func NewAssistantHandler(db *gorm.DB, openai *services.OpenAIService) *AssistantHandler {
	return &AssistantHandler{db: db, openai: openai}
}

type inventoryLine struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type inventoryAssistantRequest struct {
	Question  string          `json:"question"`
	Inventory []inventoryLine `json:"inventory"`
}

// InventoryAssistant answers questions about the inventory listing supplied
// by the client, falling back to the stored inventory when none is sent.
func (h *AssistantHandler) InventoryAssistant(c *fiber.Ctx) error {
	var req inventoryAssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Question) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "question is required")
	}

	lines := req.Inventory
	if len(lines) == 0 {
		var items []models.InventoryItem
		if err := h.db.Order("name asc").Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			lines = append(lines, inventoryLine{
				Name:     item.Name,
				Category: item.ProductCategory,
				Quantity: item.Quantity,
				Price:    item.UnitPrice,
			})
		}
	}

	var listing strings.Builder
	for _, line := range lines {
		listing.WriteString(fmt.Sprintf("- %s (%s): כמות %d, מחיר %.2f\n",
			line.Name, line.Category, line.Quantity, line.Price))
	}
	if listing.Len() == 0 {
		listing.WriteString("(המלאי ריק)\n")
	}

	systemPrompt := fmt.Sprintf(`אתה עוזר מלאי של עסק להפצת דלתות ופרזול.
ענה בעברית, בקצרה ולעניין, אך ורק על סמך רשימת המלאי הבאה:
%s
אם המידע המבוקש אינו מופיע ברשימה, אמור שאין לך נתון כזה.`, listing.String())

	answer, err := h.openai.ChatCompletion(systemPrompt, req.Question)
	if err != nil {
		if msg, ok := friendlyAssistantError(err); ok {
			return c.JSON(fiber.Map{"answer": msg})
		}
		log.Printf("[Assistant] inventory chat failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "assistant is unavailable")
	}

	return c.JSON(fiber.Map{"answer": answer})
}

type reportsAssistantRequest struct {
	Message string `json:"message"`
}

// ReportsAssistant answers questions about order and partner aggregates.
// Current counts are queried and injected into the system prompt as context.
func (h *AssistantHandler) ReportsAssistant(c *fiber.Ctx) error {
	var req reportsAssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Message) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}

	counts, err := h.reportCounts()
	if err != nil {
		return err
	}

	systemPrompt := fmt.Sprintf(`אתה עוזר דוחות של עסק להפצת דלתות ופרזול. ענה בעברית על סמך הנתונים הבאים בלבד:
- קבוצות הזמנה פעילות: %d
- קבוצות הזמנה סגורות: %d
- הזמנות משנה פעילות: %d
- הזמנות משנה מבוטלות: %d
- שותפים פעילים: %d
אל תמציא נתונים שאינם מופיעים למעלה.`,
		counts.activeGroups, counts.closedGroups,
		counts.activeSubOrders, counts.cancelledSubOrders,
		counts.activePartners)

	response, err := h.openai.ChatCompletion(systemPrompt, req.Message)
	if err != nil {
		if msg, ok := friendlyAssistantError(err); ok {
			return c.JSON(fiber.Map{"response": msg})
		}
		log.Printf("[Assistant] reports chat failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "assistant is unavailable")
	}

	return c.JSON(fiber.Map{"response": response})
}

type reportCounts struct {
	activeGroups       int64
	closedGroups       int64
	activeSubOrders    int64
	cancelledSubOrders int64
	activePartners     int64
}

func (h *AssistantHandler) reportCounts() (reportCounts, error) {
	var counts reportCounts

	queries := []struct {
		dest  *int64
		model interface{}
		where string
		value string
	}{
		{&counts.activeGroups, &models.OrderGroup{}, "status = ?", models.GroupStatusActive},
		{&counts.closedGroups, &models.OrderGroup{}, "status = ?", models.GroupStatusClosed},
		{&counts.activeSubOrders, &models.SubOrder{}, "status = ?", models.SubOrderStatusActive},
		{&counts.cancelledSubOrders, &models.SubOrder{}, "status = ?", models.SubOrderStatusCancelled},
		{&counts.activePartners, &models.Partner{}, "status = ?", models.PartnerStatusActive},
	}

	for _, q := range queries {
		if err := h.db.Model(q.model).Where(q.where, q.value).Count(q.dest).Error; err != nil {
			return counts, fmt.Errorf("count report aggregates: %w", err)
		}
	}
	return counts, nil
}

func friendlyAssistantError(err error) (string, bool) {
	switch {
	case errors.Is(err, services.ErrRateLimited):
		return "העוזר עמוס כרגע, נסו שוב בעוד מספר רגעים.", true
	case errors.Is(err, services.ErrQuotaExceeded):
		return "מכסת השימוש בעוזר הסתיימה, פנו למנהל המערכת.", true
	}
	return "", false
}
