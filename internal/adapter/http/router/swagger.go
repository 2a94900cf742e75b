package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Accounts Service API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Accounts Service API",
    "version": "1.0.0"
  },
  "paths": {
    "/api/v1/accounts": {
      "post": {
        "summary": "Create account",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/AccountRequest"}
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "409": {"description": "Duplicate account number"},
          "500": {"description": "Server error"}
        }
      },
      "get": {
        "summary": "List accounts (paginated)",
        "parameters": [
          {"name": "page", "in": "query", "schema": {"type": "integer", "default": 0}},
          {"name": "size", "in": "query", "schema": {"type": "integer", "default": 10}},
          {"name": "sortBy", "in": "query", "schema": {"type": "string", "default": "createdAt"}},
          {"name": "sortDir", "in": "query", "schema": {"type": "string", "enum": ["asc", "desc"]}}
        ],
        "responses": {
          "200": {"description": "Page of accounts"},
          "400": {"description": "Invalid paging parameters"}
        }
      }
    },
    "/api/v1/accounts/{id}": {
      "get": {
        "summary": "Get account by id",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Account found"},
          "404": {"description": "Account not found"}
        }
      },
      "put": {
        "summary": "Update holder and balance",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/AccountRequest"}
            }
          }
        },
        "responses": {
          "200": {"description": "Account updated"},
          "400": {"description": "Validation error"},
          "404": {"description": "Account not found"}
        }
      },
      "delete": {
        "summary": "Delete account",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "204": {"description": "Account deleted"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/api/v1/accounts/number/{accountNumber}": {
      "get": {
        "summary": "Get account by account number",
        "parameters": [{"name": "accountNumber", "in": "path", "required": true, "schema": {"type": "string", "pattern": "^[0-9]{10,20}$"}}],
        "responses": {
          "200": {"description": "Account found"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/api/v1/accounts/active": {
      "get": {
        "summary": "List active accounts",
        "responses": {
          "200": {"description": "Active accounts"}
        }
      }
    },
    "/api/v1/accounts/search/holder": {
      "get": {
        "summary": "Search accounts by holder name fragment",
        "parameters": [{"name": "holder", "in": "query", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Matching accounts"},
          "400": {"description": "Missing holder parameter"}
        }
      }
    },
    "/api/v1/accounts/search/type": {
      "get": {
        "summary": "Search accounts by account type",
        "parameters": [{"name": "type", "in": "query", "required": true, "schema": {"type": "string", "enum": ["CHECKING", "SAVINGS", "PAYROLL", "BUSINESS", "STUDENT"]}}],
        "responses": {
          "200": {"description": "Matching accounts"},
          "400": {"description": "Unknown account type"}
        }
      }
    },
    "/api/v1/accounts/search": {
      "get": {
        "summary": "Search accounts by combined criteria",
        "parameters": [
          {"name": "holder", "in": "query", "schema": {"type": "string"}},
          {"name": "type", "in": "query", "schema": {"type": "string"}},
          {"name": "minBalance", "in": "query", "schema": {"type": "string"}},
          {"name": "active", "in": "query", "schema": {"type": "boolean"}}
        ],
        "responses": {
          "200": {"description": "Matching accounts"},
          "400": {"description": "Invalid criteria parameter"}
        }
      }
    },
    "/api/v1/accounts/statistics": {
      "get": {
        "summary": "Global statistics over active accounts",
        "responses": {
          "200": {"description": "Statistics"}
        }
      }
    },
    "/api/v1/accounts/statistics/type": {
      "get": {
        "summary": "Statistics per account type",
        "responses": {
          "200": {"description": "Statistics keyed by account type"}
        }
      }
    },
    "/api/v1/accounts/exists/{accountNumber}": {
      "get": {
        "summary": "Check whether an account number exists",
        "parameters": [{"name": "accountNumber", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Boolean result"}
        }
      }
    },
    "/api/v1/accounts/duplicates": {
      "get": {
        "summary": "Holders owning more than one account",
        "responses": {
          "200": {"description": "Holder names"}
        }
      }
    },
    "/api/v1/accounts/{id}/balance": {
      "patch": {
        "summary": "Set the balance of an account",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "newBalance", "in": "query", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "Balance updated"},
          "400": {"description": "Missing or negative balance"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/api/v1/accounts/{id}/debit": {
      "post": {
        "summary": "Debit an amount from an account",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "amount", "in": "query", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "Amount debited"},
          "400": {"description": "Invalid amount or insufficient funds"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/api/v1/accounts/{id}/credit": {
      "post": {
        "summary": "Credit an amount to an account",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "amount", "in": "query", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "Amount credited"},
          "400": {"description": "Invalid amount"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/api/v1/accounts/{id}/activate": {
      "patch": {
        "summary": "Activate an account",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Account activated"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/api/v1/accounts/{id}/deactivate": {
      "patch": {
        "summary": "Deactivate an account",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Account deactivated"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/api/v1/internal-query/account/{id}": {
      "get": {
        "summary": "Fetch an account through the service's own HTTP surface",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Envelope with account payload"},
          "500": {"description": "Envelope describing the failed self-call"}
        }
      }
    },
    "/api/v1/internal-query/active-accounts": {
      "get": {
        "summary": "Fetch active accounts through the service's own HTTP surface",
        "responses": {
          "200": {"description": "Envelope with active accounts and count"},
          "500": {"description": "Envelope describing the failed self-call"}
        }
      }
    },
    "/api/v1/internal-query/statistics": {
      "get": {
        "summary": "Fetch statistics through the service's own HTTP surface",
        "responses": {
          "200": {"description": "Envelope with statistics payload"},
          "500": {"description": "Envelope describing the failed self-call"}
        }
      }
    },
    "/api/v1/internal-query/full-summary": {
      "get": {
        "summary": "Aggregate three self-calls into one summary",
        "responses": {
          "200": {"description": "Envelope with statistics, active accounts and per-type statistics"},
          "500": {"description": "Envelope describing the failed self-call"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "AccountRequest": {
        "type": "object",
        "required": ["accountNumber", "holder", "accountType"],
        "properties": {
          "accountNumber": {"type": "string", "pattern": "^[0-9]{10,20}$"},
          "holder": {"type": "string", "minLength": 2, "maxLength": 100},
          "balance": {"type": "string", "example": "1000.00"},
          "accountType": {"type": "string", "enum": ["CHECKING", "SAVINGS", "PAYROLL", "BUSINESS", "STUDENT"]},
          "currency": {"type": "string", "pattern": "^[A-Z]{3}$", "default": "EUR"}
        }
      }
    }
  }
}`
