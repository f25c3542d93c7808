package services

import (
	"strings"

	"site-assistant/models"
)

// TopicRule maps a topic to the keywords that select it
type TopicRule struct {
	Topic    models.Topic
	Keywords []string
}

// DefaultTopicRules is evaluated top to bottom; the order decides which topic
// wins when a message matches several of them.
var DefaultTopicRules = []TopicRule{
	{Topic: models.TopicShipping, Keywords: []string{"shipping", "delivery", "ship"}},
	{Topic: models.TopicRefund, Keywords: []string{"return", "refund"}},
	{Topic: models.TopicPrivacy, Keywords: []string{"privacy", "data", "gdpr"}},
	{Topic: models.TopicTerms, Keywords: []string{"terms", "conditions"}},
	{Topic: models.TopicFAQs, Keywords: []string{"faq", "question", "how"}},
}

// TopicRouter picks the site page relevant to a user message
type TopicRouter struct {
	rules []TopicRule
}

// NewTopicRouter creates a router over rules, or DefaultTopicRules when nil
func NewTopicRouter(rules []TopicRule) *TopicRouter {
	if rules == nil {
		rules = DefaultTopicRules
	}
	return &TopicRouter{rules: rules}
}

// Classify returns the first topic whose keywords occur in message
func (r *TopicRouter) Classify(message string) (models.Topic, bool) {
	lower := strings.ToLower(message)
	for _, rule := range r.rules {
		if containsAny(lower, rule.Keywords) {
			return rule.Topic, true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
