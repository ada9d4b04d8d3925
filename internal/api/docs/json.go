package docs

// SwaggerJSON renders the registered OpenAPI document.
func SwaggerJSON() []byte {
	return []byte(SwaggerInfo.ReadDoc())
}
