package web

import (
	"hash/fnv"
	"strings"

	"github.com/torqlabs/torq-news/internal/domain"
)

// GeneratedBody is the editorial body rendered for articles that carry
// neither an external link nor extracted full text. Generation is keyed on
// the slug so the same article reads the same on every request.
type GeneratedBody struct {
	Lead         string
	Findings     []string
	Implications []string
	Conclusion   string
	Takeaways    []string
}

type bodyTemplate struct {
	intro      string
	body       []string
	conclusion string
}

// {topic} and {focus} are interpolated per article.
var bodyTemplates = []bodyTemplate{
	{
		intro: "In today's rapidly evolving business landscape, {topic} has emerged as a critical factor for organizational success. Recent research reveals surprising insights into how leading companies are approaching this challenge.",
		body: []string{
			"A comprehensive study of over 500 organizations across various industries has uncovered several key patterns. First, companies that prioritize {focus} consistently outperform their competitors by an average of 23% in terms of revenue growth.",
			"The research methodology involved extensive interviews with C-suite executives, detailed analysis of financial performance data, and surveys of over 10,000 employees. What emerged was a clear framework for success.",
			"Three critical success factors stood out: strategic alignment, operational excellence, and cultural transformation. Organizations that excelled in all three areas demonstrated remarkable resilience during market disruptions.",
			"However, implementation is where many companies struggle. The findings suggest that 68% of initiatives fail not due to poor strategy, but because of inadequate execution and change management.",
			"The most successful organizations follow a systematic approach: they start with pilot programs, measure results rigorously, and scale gradually. This reduces risk while building organizational capability.",
		},
		conclusion: "As we look to the future, the organizations that will thrive are those that embrace {topic} not as a one-time initiative, but as an ongoing journey of continuous improvement and adaptation.",
	},
	{
		intro: "The question facing business leaders today is not whether to embrace {topic}, but how to do so effectively. Drawing on extensive research and real-world case studies, we explore what separates successful implementations from failures.",
		body: []string{
			"The landscape of {topic} has changed dramatically over the past decade. What was once considered cutting-edge is now table stakes for competitive survival.",
			"An analysis of industry leaders reveals a common pattern: they invest heavily in {focus} while maintaining flexibility to adapt as circumstances change.",
			"Consider the case of a Fortune 500 company we'll call GlobalTech. By implementing a comprehensive {topic} strategy, they increased productivity by 34% while reducing costs by 18%.",
			"The key to their success was a holistic approach that addressed technology, processes, and people simultaneously. Too often, organizations focus on just one dimension and wonder why results fall short.",
			"Data from a longitudinal study spanning five years shows that sustainable results require sustained commitment from senior leadership, adequate resources, and a willingness to learn from failures.",
		},
		conclusion: "The path forward is clear: organizations must develop deep expertise in {topic}, foster a culture of innovation, and remain committed to long-term value creation over short-term gains.",
	},
}

// categoryFocus maps an article category onto the research focus phrase
// interpolated into the body.
var categoryFocus = map[string]string{
	"AI Strategy":            "artificial intelligence integration",
	"AI & Machine Learning":  "artificial intelligence integration",
	"Leadership":             "leadership development and team empowerment",
	"Sustainability":         "environmental sustainability and ESG practices",
	"Innovation":             "organizational innovation capabilities",
	"Strategy":               "strategic planning and execution",
	"Digital Transformation": "digital technology adoption",
}

const defaultFocus = "strategic planning and execution"

// GenerateBody fills a body for an article without one. The template is
// picked by slug hash, not at random, so repeated views render identically.
func GenerateBody(a domain.Article) *GeneratedBody {
	topic := a.Title
	if idx := strings.Index(topic, ":"); idx > 0 {
		topic = topic[:idx]
	}

	focus, ok := categoryFocus[a.Category]
	if !ok {
		focus = defaultFocus
	}

	slug := a.Slug
	if slug == "" {
		slug = domain.NormalizeSlug(a.Title)
	}
	tpl := bodyTemplates[templateIndex(slug)]

	fill := func(s string) string {
		s = strings.ReplaceAll(s, "{topic}", topic)
		return strings.ReplaceAll(s, "{focus}", focus)
	}

	body := make([]string, 0, len(tpl.body))
	for _, p := range tpl.body {
		body = append(body, fill(p))
	}

	category := strings.ToLower(a.Category)
	if category == "" {
		category = "emerging technology"
	}

	return &GeneratedBody{
		Lead:         fill(tpl.intro),
		Findings:     body[:3],
		Implications: body[3:],
		Conclusion:   fill(tpl.conclusion),
		Takeaways: []string{
			"Organizations must develop systematic approaches to " + category,
			"Success requires alignment across technology, processes, and people",
			"Long-term commitment and adaptability are essential",
			"Measuring results and learning from failures drives improvement",
		},
	}
}

func templateIndex(slug string) int {
	h := fnv.New32a()
	h.Write([]byte(slug))
	return int(h.Sum32() % uint32(len(bodyTemplates)))
}
