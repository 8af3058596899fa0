// Package docs registers the Swagger document served at /swagger/index.html.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "管理员登录",
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}],
                "responses": {"200": {"description": "登录成功，返回 Token 和用户信息"}, "401": {"description": "无效的手机号或密码"}}
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "管理员登出",
                "responses": {"200": {"description": "成功登出"}}
            }
        },
        "/issues": {
            "post": {
                "tags": ["Issues"],
                "summary": "提交问题",
                "parameters": [{"in": "body", "name": "issue", "required": true, "schema": {"$ref": "#/definitions/models.SubmitIssuePayload"}}],
                "responses": {"201": {"description": "创建成功的问题"}, "400": {"description": "请求参数错误"}, "429": {"description": "提交过于频繁"}}
            }
        },
        "/issues/{id}": {
            "get": {
                "tags": ["Issues"],
                "summary": "获取问题详情",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "问题未找到"}}
            }
        },
        "/issues/{id}/photos": {
            "post": {
                "tags": ["Issues"],
                "summary": "追加问题照片",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "photos", "required": true, "schema": {"$ref": "#/definitions/models.PhotoRefsPayload"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/my-issues": {
            "get": {
                "tags": ["Issues"],
                "summary": "查询我提交的问题",
                "parameters": [{"type": "string", "name": "phone", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/showcase": {
            "get": {
                "tags": ["Issues"],
                "summary": "最近解决的问题",
                "parameters": [{"type": "integer", "default": 10, "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Issues"],
                "summary": "管理端统计数据",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/issues": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Issues"],
                "summary": "管理端问题列表",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "district", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/issues/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Issues"],
                "summary": "更新问题状态",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "status", "required": true, "schema": {"$ref": "#/definitions/models.UpdateIssueStatusPayload"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/issues/{id}/assignment": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Issues"],
                "summary": "手动分派问题",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "assignment", "required": true, "schema": {"$ref": "#/definitions/models.AssignIssuePayload"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/issues/{id}/after-photos": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Issues"],
                "summary": "追加处理后照片",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "photos", "required": true, "schema": {"$ref": "#/definitions/models.PhotoRefsPayload"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/issues/{id}/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Issues"],
                "summary": "问题操作历史",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/me/device-token": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Users"],
                "summary": "保存当前管理员的推送令牌",
                "parameters": [{"in": "body", "name": "token", "required": true, "schema": {"$ref": "#/definitions/handlers.DeviceTokenPayload"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Users"],
                "summary": "管理员列表",
                "responses": {"200": {"description": "OK"}, "403": {"description": "权限不足"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Users"],
                "summary": "新增管理员",
                "parameters": [{"in": "body", "name": "administrator", "required": true, "schema": {"$ref": "#/definitions/models.CreateAdministratorPayload"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "手机号已存在"}}
            }
        },
        "/admin/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Users"],
                "summary": "管理员详情",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "管理员未找到"}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Users"],
                "summary": "更新管理员",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "updates", "required": true, "schema": {"$ref": "#/definitions/models.UpdateAdministratorPayload"}}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "不能停用自己"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin Users"],
                "summary": "删除管理员",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "不能删除自己"}}
            }
        }
    },
    "definitions": {
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["phone", "password"],
            "properties": {"phone": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.DeviceTokenPayload": {
            "type": "object",
            "required": ["token"],
            "properties": {"token": {"type": "string"}}
        },
        "models.SubmitIssuePayload": {
            "type": "object",
            "required": ["title", "category", "submitterPhone"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "priority": {"type": "string"},
                "location": {"type": "object"},
                "submitterPhone": {"type": "string"},
                "beforePhotos": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.UpdateIssueStatusPayload": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string"}, "notes": {"type": "string"}}
        },
        "models.AssignIssuePayload": {
            "type": "object",
            "required": ["assignedTo"],
            "properties": {"assignedTo": {"type": "string"}}
        },
        "models.PhotoRefsPayload": {
            "type": "object",
            "required": ["photos"],
            "properties": {"photos": {"type": "array", "items": {"type": "string"}}}
        },
        "models.CreateAdministratorPayload": {
            "type": "object",
            "required": ["phone", "role"],
            "properties": {
                "phone": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "district": {"type": "string"},
                "panchayatUnion": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.UpdateAdministratorPayload": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "role": {"type": "string"},
                "district": {"type": "string"},
                "panchayatUnion": {"type": "string"},
                "isActive": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Janakural API",
	Description:      "Public issue submission and administrator triage for the Janakural grievance platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
