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
  <title>UPI Payment Processor API Docs</title>
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
    "title": "UPI Payment Processor API",
    "version": "1.0.0"
  },
  "paths": {
    "/open-account": {
      "post": {
        "summary": "Open an account",
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "handle": {"type": "string", "description": "Ten-digit account number or local@provider UPI id; generated when omitted"},
                  "initialDeposit": {"type": "string", "example": "1000.00"},
                  "pin": {"type": "string", "example": "1234"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Account opened"},
          "400": {"description": "Validation failed"}
        }
      }
    },
    "/get-account": {
      "get": {
        "summary": "Get an account by handle",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "handle", "in": "query", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Account"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/list-accounts": {
      "get": {
        "summary": "List accounts",
        "security": [{"BasicAuth": []}],
        "responses": {"200": {"description": "Accounts"}}
      }
    },
    "/deposit-funds": {
      "post": {
        "summary": "Deposit funds into an account",
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "handle": {"type": "string"},
                  "amount": {"type": "string", "example": "250.00"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Deposit applied"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/deactivate-account": {
      "post": {
        "summary": "Deactivate an account",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "handle", "in": "query", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Account deactivated"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/transfer-funds": {
      "post": {
        "summary": "Transfer funds between two accounts",
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "senderHandle": {"type": "string"},
                  "receiverHandle": {"type": "string"},
                  "amount": {"type": "string", "example": "200.00"},
                  "narration": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Transfer recorded as SUCCESS"},
          "400": {"description": "Transfer recorded as FAILED"},
          "404": {"description": "Account not found, attempt recorded as FAILED"},
          "422": {"description": "Insufficient balance, attempt recorded as FAILED"}
        }
      }
    },
    "/get-transfer": {
      "get": {
        "summary": "Get a ledger entry by id",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "query", "required": true, "schema": {"type": "integer"}}],
        "responses": {
          "200": {"description": "Transfer"},
          "404": {"description": "Transfer not found"}
        }
      }
    },
    "/list-transfers": {
      "get": {
        "summary": "List ledger entries",
        "security": [{"BasicAuth": []}],
        "parameters": [
          {"name": "sender", "in": "query", "schema": {"type": "string"}},
          {"name": "status", "in": "query", "schema": {"type": "string", "enum": ["SUCCESS", "FAILED"]}}
        ],
        "responses": {"200": {"description": "Transfers"}}
      }
    },
    "/upi/initiate-payment": {
      "post": {
        "summary": "Initiate a UPI payment (PENDING, no debit)",
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "senderHandle": {"type": "string"},
                  "receiverHandle": {"type": "string", "example": "merchant@upi"},
                  "amount": {"type": "string", "example": "1000.00"},
                  "remarks": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Transaction created PENDING"},
          "400": {"description": "Invalid handle or amount"},
          "404": {"description": "Sender account not found"},
          "422": {"description": "Insufficient balance"}
        }
      }
    },
    "/upi/verify-payment": {
      "post": {
        "summary": "Verify a pending UPI payment with the sender pin",
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "transactionId": {"type": "integer"},
                  "pin": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Transaction settled SUCCESS"},
          "401": {"description": "Invalid pin, transaction FAILED"},
          "404": {"description": "Transaction or sender account not found"},
          "409": {"description": "Transaction already processed"},
          "422": {"description": "Insufficient balance, transaction FAILED"}
        }
      }
    },
    "/upi/make-payment": {
      "post": {
        "summary": "One-shot UPI payment without the pin step",
        "security": [{"BasicAuth": []}],
        "responses": {
          "200": {"description": "Payment settled"},
          "400": {"description": "Invalid handle or amount"},
          "422": {"description": "Insufficient balance"}
        }
      }
    },
    "/upi/get-transaction": {
      "get": {
        "summary": "Get a UPI transaction by id",
        "security": [{"BasicAuth": []}],
        "parameters": [{"name": "id", "in": "query", "required": true, "schema": {"type": "integer"}}],
        "responses": {
          "200": {"description": "Transaction"},
          "404": {"description": "Transaction not found"}
        }
      }
    },
    "/upi/list-transactions": {
      "get": {
        "summary": "List UPI transactions",
        "security": [{"BasicAuth": []}],
        "parameters": [
          {"name": "sender", "in": "query", "schema": {"type": "string"}},
          {"name": "status", "in": "query", "schema": {"type": "string", "enum": ["PENDING", "SUCCESS", "FAILED"]}}
        ],
        "responses": {"200": {"description": "Transactions"}}
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    }
  }
}`
