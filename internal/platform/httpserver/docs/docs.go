// Package docs holds the generated swagger specification served under
// /swagger. Regenerate with swag init when routes change.
package docs

import "github.com/swaggo/swag"

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
    "paths": {
        "/api/election/v1/candidates": {
            "post": {
                "summary": "Add a candidate (admin, before the election starts)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/election/v1/candidates/{candidate_id}": {
            "get": {
                "summary": "Fetch a candidate by 1-based id",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/election/v1/candidates/{candidate_id}/results": {
            "get": {
                "summary": "Live tally for one candidate, readable in any phase",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/election/v1/voters": {
            "post": {
                "summary": "Register a voter (admin, before the election starts)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/election/v1/voters/{address}": {
            "get": {
                "summary": "Voter profile; unregistered identities return the zero record",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/election/v1/start": {
            "post": {
                "summary": "Open voting (admin)",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/election/v1/end": {
            "post": {
                "summary": "Close voting (admin)",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/election/v1/votes": {
            "post": {
                "summary": "Cast the caller's vote for a candidate id",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/election/v1/delegations": {
            "post": {
                "summary": "Delegate the caller's vote, single hop",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/election/v1/winner": {
            "get": {
                "summary": "Winning candidate after the election has ended",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/election/v1/tally-board": {
            "get": {
                "summary": "All candidates ranked by tally",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/election/v1/summary": {
            "get": {
                "summary": "Election phase and aggregate counts",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pericles Election API",
	Description:      "Single-authority election ledger: candidates, voters, votes, delegations, results.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
