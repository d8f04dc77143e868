package stamps

import "github.com/JaimeStill/philatopia/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
}

var stampFields = map[string]*openapi.Schema{
	"name":        {Type: "string", Description: "Stamp name"},
	"description": {Type: "string", MaxLength: MaxDescriptionLength},
	"yearIssued":  {Type: "integer", Description: "Year of issue", Example: 1932},
	"country":     {Type: "string", Description: "Issuing country"},
}

func withFields(extra map[string]*openapi.Schema) map[string]*openapi.Schema {
	props := make(map[string]*openapi.Schema, len(stampFields)+len(extra))
	for k, v := range stampFields {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List a collection",
		Description: "One page of a user's stamps in insertion order. A missing userId returns an empty listing.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("userId", "string", "Owner id", false),
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Collection page", "Listing"),
			500: openapi.ResponseJSON("Listing failed", "Failure"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find stamp",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Stamp ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stamp details", "Stamp"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create stamp",
		Description: "Add a stamp with its image. The owner defaults to the session user.",
		RequestBody: openapi.RequestBodyMultipart(&openapi.Schema{
			Type: "object",
			Properties: withFields(map[string]*openapi.Schema{
				"user":  {Type: "string", Format: "uuid", Description: "Owner id (optional with a session token)"},
				"image": {Type: "string", Format: "binary"},
			}),
			Required: []string{"name", "yearIssued", "image"},
		}, true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Stamp created", "StampCreated"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update stamp",
		Description: "Partial update. Send JSON, or multipart with an optional replacement image.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Stamp ID"),
		},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.SchemaRef("UpdateStampCommand")},
				"multipart/form-data": {Schema: &openapi.Schema{
					Type: "object",
					Properties: withFields(map[string]*openapi.Schema{
						"image": {Type: "string", Format: "binary"},
					}),
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stamp updated", "StampUpdated"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete stamp",
		Description: "Remove a stamp. Its image is deleted once nothing references it.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Stamp ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stamp deleted", "Success"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Stamp": {
			Type: "object",
			Properties: withFields(map[string]*openapi.Schema{
				"id":        {Type: "string", Format: "uuid"},
				"image":     {Type: "string", Description: "Public image path", Example: "/uploads/3f9a.png"},
				"userId":    {Type: "string", Format: "uuid"},
				"createdAt": {Type: "string", Format: "date-time"},
			}),
		},
		"Listing": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stamps":     {Type: "array", Items: openapi.SchemaRef("Stamp")},
				"totalPages": {Type: "integer"},
			},
			Required: []string{"stamps", "totalPages"},
		},
		"UpdateStampCommand": {
			Type: "object",
			Properties: withFields(map[string]*openapi.Schema{
				"image": {Type: "string", Description: "Existing public image path"},
			}),
		},
		"StampCreated": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean", Example: true},
				"data":    openapi.SchemaRef("Stamp"),
			},
		},
		"StampUpdated": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean", Example: true},
				"stamp":   openapi.SchemaRef("Stamp"),
			},
		},
	}
}
