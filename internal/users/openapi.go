package users

import "github.com/JaimeStill/philatopia/pkg/openapi"

type spec struct {
	Register      *openapi.Operation
	Login         *openapi.Operation
	Profile       *openapi.Operation
	UpdateProfile *openapi.Operation
}

var Spec = spec{
	Register: &openapi.Operation{
		Summary:     "Register",
		Description: "Create an account. Emails are stored lower-cased and must be unique.",
		RequestBody: openapi.RequestBodyJSON("RegisterCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Account created", "UserEnvelope"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
			429: openapi.ResponseRef("TooManyRequests"),
		},
	},
	Login: &openapi.Operation{
		Summary:     "Sign in",
		Description: "Exchange credentials for a bearer token.",
		RequestBody: openapi.RequestBodyJSON("LoginCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Signed in", "Session"),
			401: openapi.ResponseRef("Unauthorized"),
			429: openapi.ResponseRef("TooManyRequests"),
		},
	},
	Profile: &openapi.Operation{
		Summary:  "Read profile",
		Security: openapi.BearerAuth(),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Profile", "UserEnvelope"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	UpdateProfile: &openapi.Operation{
		Summary:     "Update profile",
		Description: "Change about-me text and optionally replace the profile image.",
		Security:    openapi.BearerAuth(),
		RequestBody: openapi.RequestBodyMultipart(&openapi.Schema{
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"aboutMe": {Type: "string"},
				"image":   {Type: "string", Format: "binary"},
			},
		}, true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Profile updated", "UserEnvelope"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"User": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"email":        {Type: "string", Format: "email"},
				"name":         {Type: "string"},
				"profileImage": {Type: "string", Description: "Public image path"},
				"aboutMe":      {Type: "string"},
				"createdAt":    {Type: "string", Format: "date-time"},
			},
		},
		"UserEnvelope": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean", Example: true},
				"user":    openapi.SchemaRef("User"),
			},
		},
		"Session": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success":   {Type: "boolean", Example: true},
				"token":     {Type: "string"},
				"expiresAt": {Type: "string", Format: "date-time"},
				"user":      openapi.SchemaRef("User"),
			},
		},
		"RegisterCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"email":    {Type: "string", Format: "email"},
				"name":     {Type: "string"},
				"password": {Type: "string", Format: "password"},
			},
			Required: []string{"email", "name", "password"},
		},
		"LoginCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"email":    {Type: "string", Format: "email"},
				"password": {Type: "string", Format: "password"},
			},
			Required: []string{"email", "password"},
		},
	}
}
