package models

// Topic identifies one of the site policy pages the assistant knows about
type Topic string

const (
	TopicShipping Topic = "shipping"
	TopicRefund   Topic = "refund"
	TopicPrivacy  Topic = "privacy"
	TopicTerms    Topic = "terms"
	TopicFAQs     Topic = "faqs"
)

// AllTopics lists every topic in refresh order: the four mandatory policy
// pages first, the optional FAQ page last.
var AllTopics = []Topic{TopicShipping, TopicRefund, TopicPrivacy, TopicTerms, TopicFAQs}

var topicLabels = map[Topic]string{
	TopicShipping: "Shipping Policy",
	TopicRefund:   "Refund Policy",
	TopicPrivacy:  "Privacy Policy",
	TopicTerms:    "Terms of Service",
	TopicFAQs:     "FAQs",
}

// Label returns the human readable name used in prompts
func (t Topic) Label() string {
	if label, ok := topicLabels[t]; ok {
		return label
	}
	return string(t)
}

// TopicSource is the static configuration of one topic page
type TopicSource struct {
	Topic Topic
	URL   string
}

// Label returns the display label of the source topic
func (s TopicSource) Label() string {
	return s.Topic.Label()
}
