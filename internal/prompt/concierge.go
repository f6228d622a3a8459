package prompt

import "fmt"

// BuildConciergeSystem renders the concierge system instruction. If the
// embedded template cannot be rendered the inline fallback is used instead.
func BuildConciergeSystem(b *Builder, data ConciergeSystemData) string {
	if b == nil {
		b = Default()
	}
	text, err := b.Render(TemplateConciergeSystem, data)
	if err != nil {
		return FallbackConciergeSystem(data)
	}
	return text
}

func FallbackConciergeSystem(data ConciergeSystemData) string {
	return fmt.Sprintf(`You are an expert AI software consultant for an affiliate directory of AI tools.
Recommend the best tools from this list (%d entries) for the user's request:
%s

Only recommend listed tools. Be concise, under about 100 words. Bold tool names and offers with **text**.
Do not use headers. Always mention a tool's OFFER when present. Never invent URLs.`,
		data.ToolCount,
		data.ToolContext,
	)
}
