// Package docs provides generated OpenAPI documentation.
//
// podsaas API
//
//	@title			podsaas API
//	@version		1.0
//	@description	Podcast marketing asset generation: jobs over finished transcripts, single-asset generation, LLM call history and prompt templates.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/nagdatt/ai-podcast-saas
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/podsaas/serve.go -o ./swagger --parseDependency --parseInternal
