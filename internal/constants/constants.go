package constants

import "time"

var CatalogDefaults = struct {
	UntitledName   string
	AffiliateLink  string
	MonthlyVisits  string
	PlaceholderImg string
}{
	UntitledName:   "Untitled Tool",
	AffiliateLink:  "#",
	MonthlyVisits:  "N/A",
	PlaceholderImg: "https://picsum.photos/400/200?grayscale",
}

// Notion column names the normalizer reads.
var NotionProperties = struct {
	Name          string
	Description   string
	Category      string
	PriceModel    string
	AffiliateLink string
	Rating        string
	MonthlyVisits string
	Image         string
	Features      string
	Offer         string
}{
	Name:          "Name",
	Description:   "Description",
	Category:      "Category",
	PriceModel:    "Price Model",
	AffiliateLink: "Affiliate Link",
	Rating:        "Rating",
	MonthlyVisits: "Monthly Visits",
	Image:         "Image",
	Features:      "Features",
	Offer:         "Offer",
}

var NotionConfig = struct {
	PageSize       int
	RequestTimeout time.Duration
}{
	PageSize:       100,
	RequestTimeout: 15 * time.Second,
}

var StorageKeys = struct {
	Favorites  string
	BoltBucket string
}{
	Favorites:  "affiliatehub:favorites",
	BoltBucket: "affiliatehub",
}

var AIInputLimits = struct {
	MaxQueryLength int
}{
	MaxQueryLength: 500,
}

var AIMessages = struct {
	NotConfigured string
	Apology       string
	Greeting      string
}{
	NotConfigured: "Please configure your API Key to use the AI Concierge.",
	Apology:       "Sorry, I encountered an error while processing your request.",
	Greeting:      "Hi! I'm your AI Content Assistant. Looking for a tool recommendation or an affiliate deal? Ask me!",
}

var AIConfig = struct {
	DefaultGeminiModel string
	DefaultOpenAIModel string
	RequestTimeout     time.Duration
}{
	DefaultGeminiModel: "gemini-2.5-flash",
	DefaultOpenAIModel: "gpt-4o-mini",
	RequestTimeout:     30 * time.Second,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,                // 3 consecutive service failures open the circuit
	ResetTimeout:        30 * time.Second, // default wait before half-open
	RateLimitTimeout:    10 * time.Minute, // 429 responses wait longer
	HealthCheckInterval: 5 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var HTTPConfig = struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	MaxBodyBytes      int64
}{
	ReadHeaderTimeout: 5 * time.Second,
	WriteTimeout:      60 * time.Second,
	ShutdownTimeout:   10 * time.Second,
	MaxBodyBytes:      64 << 10,
}

var WebSocketConfig = struct {
	ReadLimit    int64
	PongWait     time.Duration
	PingInterval time.Duration
	WriteWait    time.Duration
	// MaxAsks bounds concurrent ask frames per connection: one awaiting its
	// reply plus one answering follow-ups with "ignored".
	MaxAsks      int
}{
	ReadLimit:    8 << 10,
	PongWait:     60 * time.Second,
	PingInterval: 50 * time.Second,
	WriteWait:    10 * time.Second,
	MaxAsks:      2,
}
