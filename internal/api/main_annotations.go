// @title           sitegen API
// @version         1.0
// @description     Generates single-page websites from a short description with an LLM provider.
// @BasePath        /api/v1
package api
