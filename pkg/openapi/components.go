package openapi

// NewComponents returns the shared schemas and responses every API document
// starts from.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string"},
				},
				Required: []string{"error"},
			},
			"Failure": {
				Type: "object",
				Properties: map[string]*Schema{
					"success": {Type: "boolean", Example: false},
					"error":   {Type: "string"},
				},
				Required: []string{"success", "error"},
			},
			"Success": {
				Type: "object",
				Properties: map[string]*Schema{
					"success": {Type: "boolean", Example: true},
				},
				Required: []string{"success"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":      ResponseJSON("Invalid request", "Failure"),
			"Unauthorized":    ResponseJSON("Missing or invalid session token", "Failure"),
			"Forbidden":       ResponseJSON("Resource belongs to another user", "Failure"),
			"NotFound":        ResponseJSON("Resource not found", "Failure"),
			"Conflict":        ResponseJSON("Resource already exists", "Failure"),
			"PayloadTooLarge": ResponseJSON("Upload exceeds the size limit", "Failure"),
			"TooManyRequests": ResponseJSON("Rate limit exceeded", "Error"),
		},
		SecuritySchemes: map[string]*SecurityScheme{
			"bearerAuth": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
		},
	}
}

// AddSchemas merges schemas into the components, replacing same-named entries.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

// AddResponses merges responses into the components, replacing same-named entries.
func (c *Components) AddResponses(responses map[string]*Response) {
	for name, response := range responses {
		c.Responses[name] = response
	}
}
