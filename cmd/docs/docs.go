// Package docs holds the swagger metadata served by the non-production
// documentation routes. The spec itself is generated by swag from the handler
// annotations.
package docs

import "github.com/swaggo/swag"

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/_v/giftcard-manager",
	Schemes:          []string{},
	Title:            "Gift Card Management API",
	Description:      "Admin backend for creating, reconciling and auditing platform gift cards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {}
}`

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
