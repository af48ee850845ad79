package tools

import (
	"context"
	"strings"

	"github.com/aara-health/aara/internal/models"
)

// healthTopic pairs a topic keyword with its advice text. Topics are checked
// in order; the first contained keyword wins.
type healthTopic struct {
	Keyword string
	Advice  string
}

var healthTopics = []healthTopic{
	{"period", "To track your menstrual cycle, note the start and end dates each month. A typical cycle is 21-35 days. Regular tracking helps you understand your body's patterns and identify any irregularities."},
	{"menstrual", "Menstrual cycles vary from person to person. Normal cycles are 21-35 days long. If you experience severe pain, very heavy bleeding, or irregular cycles, it's important to discuss this with a healthcare provider."},
	{"pcos", "PCOS (Polycystic Ovary Syndrome) is a common hormonal condition. Symptoms may include irregular periods, excess hair growth, acne, and weight gain. Management often includes lifestyle changes, medication, and regular monitoring."},
	{"cycle", "Cycle tracking helps you understand your body's patterns. You can use a calendar, app, or journal to track your period dates, symptoms, and mood changes. This information is valuable for healthcare discussions."},
	{"cramps", "Menstrual cramps are common and can be managed with heat therapy, gentle exercise, over-the-counter pain relievers, and relaxation techniques. Severe cramps that interfere with daily activities should be evaluated by a doctor."},
	{"irregular", "Irregular periods can be caused by stress, hormonal changes, weight fluctuations, or underlying conditions. If your periods are consistently irregular, it's worth discussing with a healthcare provider."},
	{"hormones", "Hormonal changes throughout your cycle are normal and can affect mood, energy, and physical symptoms. Understanding these patterns can help you better manage your health and wellbeing."},
}

const healthClarification = "I can help with women's health topics like menstrual cycles, PCOS, period tracking, and general wellness. Could you please be more specific about what you'd like to know?"

// HealthAdviceTool answers women's health questions from a keyword-to-advice
// lookup.
type HealthAdviceTool struct{}

// NewHealthAdviceTool creates the health advice tool.
func NewHealthAdviceTool() *HealthAdviceTool {
	return &HealthAdviceTool{}
}

// Name implements Tool.
func (t *HealthAdviceTool) Name() models.Tool {
	return models.ToolHealthAdvice
}

// Run resolves the state with topic advice, or a clarifying question when no
// topic matches.
func (t *HealthAdviceTool) Run(_ context.Context, state *models.ConversationState) {
	input := strings.ToLower(state.UserInput)
	for _, topic := range healthTopics {
		if strings.Contains(input, topic.Keyword) {
			state.FinalResponse = topic.Advice
			state.AddStep(models.NodeHealthAdviceTool, "advice_provided", map[string]string{"topic": topic.Keyword})
			return
		}
	}
	state.FinalResponse = healthClarification
	state.AddStep(models.NodeHealthAdviceTool, "clarification_requested", nil)
}
