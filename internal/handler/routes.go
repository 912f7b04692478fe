package handler

// APIV1Prefix is the canonical base path for public HTTP API v1.
// Keep a single source of truth to avoid path drift across handlers and tests.
const APIV1Prefix = "/api/v1"

// AdminPrefix groups the admin area, both under the API and for HTML pages.
const AdminPrefix = "/admin"

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"
