package prompt

type ConciergeSystemData struct {
	ToolCount   int
	ToolContext string
}
