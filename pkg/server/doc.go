// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server provides the HTTP server used by the release phase API.
//
// The server owns the cross-cutting concerns and leaves routing of API
// endpoints to the caller:
//
//	s := server.New(
//	    server.WithName("relphased"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/phase":   h.HandlePhase,
//	        "/v1/version": h.HandleVersion,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Endpoints
//
// System endpoints bypass the middleware chain:
//
//	GET /health   liveness
//	GET /ready    readiness; 503 until the listener is up and during shutdown
//	GET /metrics  Prometheus metrics
//
// GET / lists the server identity and its API routes unless the caller
// registers its own root handler.
//
// # Middleware
//
// API handlers are wrapped, outermost first, with metrics, API version
// negotiation, request ID, panic recovery, rate limiting and request
// logging. Request IDs are taken from a valid X-Request-Id UUID header or
// generated, and echoed back; Logger(ctx) returns a logger carrying it.
// Request metrics are labeled with the registered route, not the path.
//
// The API version is negotiated through the Accept header:
//
//	Accept: application/vnd.nvidia.relphase.v1+json
//
// and reported in X-API-Version.
//
// # Errors
//
// Every error response has the same shape:
//
//	{
//	  "code": "INVALID_REQUEST",
//	  "message": "version query parameter is required",
//	  "details": {...},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-02T03:04:05Z",
//	  "retryable": false
//	}
//
// WriteErrorFromErr derives the status from an errors.StructuredError code.
//
// # Configuration
//
// Environment variables:
//
//	PORT                      listen port (default 8080)
//	SHUTDOWN_TIMEOUT_SECONDS  graceful shutdown budget (default 30)
//	RATE_LIMIT                requests per second (default 100)
//	RATE_LIMIT_BURST          burst size (default 200)
package server
