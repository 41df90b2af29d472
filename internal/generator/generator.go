package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nichelabs/nichenav/internal/cache"
	"github.com/nichelabs/nichenav/internal/metrics"
	"github.com/nichelabs/nichenav/internal/provider"
	"github.com/nichelabs/nichenav/pkg/models"
)

// Generator produces idea candidates, validation material, and strategy
// plans from an LLM provider. Responses are cached by prompt and model.
type Generator struct {
	provider provider.Protocol
	cache    *cache.Cache
	model    string
}

// New creates a generator on top of a chat-completion provider
func New(p provider.Protocol, c *cache.Cache, model string) *Generator {
	return &Generator{
		provider: p,
		cache:    c,
		model:    model,
	}
}

// GenerateIdeas analyzes keywords in an industry and returns 2-3
// candidate micro-SaaS ideas.
func (g *Generator) GenerateIdeas(ctx context.Context, keywords, industry string) ([]models.IdeaCandidate, error) {
	if strings.TrimSpace(keywords) == "" {
		return nil, fmt.Errorf("keywords are required")
	}
	if industry == "" {
		industry = "general"
	}

	prompt := fmt.Sprintf(`As a micro-SaaS opportunity analyst, analyze the keywords %q in the %s industry and identify 2-3 specific underserved problems that could become profitable micro-SaaS products.

For each opportunity, provide:
- A clear, specific product name
- 2-sentence problem description
- Problem category
- 3 key user pain points
- Estimated monthly revenue potential (realistic for micro-SaaS)
- Target user count

Format as JSON array with objects containing: name, description, problem_category, user_pain_points (array), validation_stage, revenue_potential (number), target_users (number).`, keywords, industry)

	content, err := g.complete(ctx, prompt, 0.7, 1500)
	if err != nil {
		return nil, err
	}

	var candidates []models.IdeaCandidate
	if err := decodeArray(content, &candidates); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("completion contained no ideas")
	}
	return candidates, nil
}

// GenerateValidationQuestions creates 4-5 targeted questions for
// validating an idea with real users.
func (g *Generator) GenerateValidationQuestions(ctx context.Context, idea *models.Idea) ([]models.ValidationQuestion, error) {
	prompt := fmt.Sprintf(`Create 4-5 targeted validation questions for this micro-SaaS idea:

Name: %s
Description: %s
Category: %s

Generate questions that will help validate:
1. Problem existence and frequency
2. Current solution gaps
3. Willingness to pay
4. Feature priorities

Format as JSON array with objects containing: type, question, purpose.`,
		idea.Name, idea.Description, idea.ProblemCategory)

	content, err := g.complete(ctx, prompt, 0.6, 800)
	if err != nil {
		return nil, err
	}

	var questions []models.ValidationQuestion
	if err := decodeArray(content, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GenerateSurveyTemplate renders the validation questions into a short
// plain-text survey. Unlike the other operations, the output is prose,
// not JSON.
func (g *Generator) GenerateSurveyTemplate(ctx context.Context, idea *models.Idea, questions []models.ValidationQuestion) (string, error) {
	var lines []string
	for _, q := range questions {
		lines = append(lines, "- "+q.Question)
	}

	prompt := fmt.Sprintf(`Create a concise survey template for validating %q.

Use these validation questions:
%s

Create a 5-7 question survey that:
- Starts with context/background questions
- Includes the validation questions
- Ends with demographic/contact info
- Uses clear, unbiased language
- Takes 3-5 minutes to complete

Format as plain text survey template.`, idea.Name, strings.Join(lines, "\n"))

	return g.complete(ctx, prompt, 0.5, 1000)
}

// GenerateMonetizationStrategy creates a lean pricing plan for an idea
func (g *Generator) GenerateMonetizationStrategy(ctx context.Context, idea *models.Idea) (*models.MonetizationStrategy, error) {
	prompt := fmt.Sprintf(`Create a lean monetization strategy for this micro-SaaS:

Name: %s
Description: %s
Category: %s
Target Users: %d

Provide:
1. Recommended pricing model (subscription/one-time/usage-based)
2. 3 pricing tiers with specific prices, features, and target segments
3. Value metrics to price on
4. Pricing psychology tactics
5. Revenue projections for months 1, 6, and 12

Format as JSON with: pricing_model, tiers (array with name, price, period, features, target_segment), value_metrics (array), pricing_psychology (array), revenue_projections (object with month_1, month_6, month_12).`,
		idea.Name, idea.Description, idea.ProblemCategory, idea.TargetUsers)

	content, err := g.complete(ctx, prompt, 0.6, 1500)
	if err != nil {
		return nil, err
	}

	var strategy models.MonetizationStrategy
	if err := decodeObject(content, &strategy); err != nil {
		return nil, err
	}
	return &strategy, nil
}

// GenerateAcquisitionStrategy creates a guerilla acquisition plan for
// reaching an idea's first 10-50 customers.
func (g *Generator) GenerateAcquisitionStrategy(ctx context.Context, idea *models.Idea) (*models.AcquisitionStrategy, error) {
	prompt := fmt.Sprintf(`Create a guerilla acquisition strategy for this micro-SaaS to get the first 10-50 customers:

Name: %s
Description: %s
Category: %s
Target Users: %d

Provide:
1. Primary, secondary, tertiary customer segments
2. 3-4 specific acquisition channels with platforms, approach, effort level, timeline, expected reach
3. 3 guerilla tactics with implementation details
4. 8-week timeline with weekly actions
5. Success metrics to track

Format as JSON with: target_customers (object with primary, secondary, tertiary), channels (array with name, platforms, approach, effort, timeline, expected_reach), tactics (array with title, description, implementation), timeline (object with week_1, week_2, etc.), success_metrics (array).`,
		idea.Name, idea.Description, idea.ProblemCategory, idea.TargetUsers)

	content, err := g.complete(ctx, prompt, 0.7, 2000)
	if err != nil {
		return nil, err
	}

	var strategy models.AcquisitionStrategy
	if err := decodeObject(content, &strategy); err != nil {
		return nil, err
	}
	return &strategy, nil
}

// complete sends a single-message chat completion, consulting the cache
// first. Only the raw completion text is cached so every caller decodes
// it the same way whether it was fresh or cached.
func (g *Generator) complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	req := &provider.ChatCompletionRequest{
		Model:       g.model,
		Messages:    []provider.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var key string
	if g.cache != nil {
		k, err := cache.GenerateKey(g.model, req)
		if err == nil {
			key = k
			if entry, ok := g.cache.Get(ctx, key); ok {
				metrics.RecordCacheHit()
				return entry.Response, nil
			}
			metrics.RecordCacheMiss()
		}
	}

	start := time.Now()
	resp, err := g.provider.CreateChatCompletion(ctx, req)
	metrics.RecordGeneration(g.model, time.Since(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	content, err := resp.Content()
	if err != nil {
		return "", err
	}

	if g.cache != nil && key != "" {
		_ = g.cache.Set(ctx, key, content, g.model, 0)
	}
	return content, nil
}
