package config

import "time"

// Defaults for the collect command and the shared environment.
const (
	DefaultMode        = "api"
	DefaultOutputDir   = "output"
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultFacetDelay  = 1 * time.Second
	DefaultLimit       = 6000
	DefaultStartYear   = 2019
	DefaultEndYear     = 2024
	DefaultMinComments = 90

	DefaultSearchLimit       = 10000
	DefaultSearchMinComments = 10
	DefaultPushshiftURL      = "https://arctic-shift.photon-reddit.com/api/posts/search"

	DefaultFirecrawlURL = "https://api.firecrawl.dev"
	DefaultGroqURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel    = "llama3-70b-8192"
	DefaultExtractURL   = "https://christuniversity.in/departments/main%20campus/school%20of%20sciences/computer%20science/Festivals"
)
