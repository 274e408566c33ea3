// Package contracts records sample payloads of the remote Wine Locals APIs.
//
// Tests serve them through Handler so the clients are checked against the
// shapes the services return, including their loose typing: ids arrive as
// numbers or strings, product fields may be nested under attributes, and the
// gallery key has two spellings.
package contracts

import (
	"net/http"
)

// ProductsContract is a page of GET /products.
const ProductsContract = `{
	"data": [
		{
			"id": 101,
			"slug": "degustacao-no-vale",
			"name": "Degustação no Vale",
			"city": "Bento Gonçalves",
			"state_code": "rs",
			"region": "Vale dos Vinhedos",
			"latitude": -29.17,
			"longitude": -51.52,
			"partner": {"name": "Vinícola Aurora"},
			"price_from": "189.90",
			"videoGallery": [{"playback_id": "mux101", "thumbUrl": "https://image.mux.com/mux101/thumbnail.jpg"}]
		},
		{
			"id": "102",
			"attributes": {
				"title": "Passeio de Trem",
				"slug": "passeio-de-trem",
				"city": "Garibaldi",
				"state": "RS",
				"regiao": "Serra Gaúcha",
				"partner": {"data": {"attributes": {"name": "Maria Fumaça"}}},
				"price": 320,
				"video_gallery": [{"videoUrl": "https://www.youtube.com/watch?v=trem102&t=4"}]
			}
		},
		{
			"id": 103,
			"name": "Almoço Campeiro",
			"region": "Campanha Gaúcha",
			"videoGallery": []
		}
	],
	"meta": {"pagination": {"page": 1, "pageSize": 1000, "pageCount": 1, "total": 3}}
}`

// RegionFacetContract is the response of POST /indexes/location/search with
// a region facet.
const RegionFacetContract = `{
	"hits": [],
	"facets": {
		"region": {
			"buckets": [
				{"value": "Vale dos Vinhedos", "count": 12},
				{"value": "Serra Gaúcha", "count": 7},
				{"value": "", "count": 1}
			]
		}
	}
}`

// LoginContract is the response of POST /auth/local.
const LoginContract = `{
	"jwt": "eyJhbGciOiJIUzI1NiJ9.contract.token",
	"user": {"id": 42, "username": "ana.souza", "email": "ana@example.com", "confirmed": true}
}`

// OrdersContract is the response of GET /users/orders.
const OrdersContract = `{
	"data": [
		{"id": 9001, "createdAt": "2024-03-05T13:45:00.000Z", "total": 378.5},
		{"id": "9002", "createdAt": "2024-04-10T09:00:00.000Z", "total": 189.9}
	]
}`

// VouchersContract is the response of GET /users/vouchers.
const VouchersContract = `[
	{"id": 7, "code": "VINDIMA10", "description": "10% na vindima", "discount": 10, "expiresAt": "2025-02-28T23:59:59.000Z"}
]`

// ContractToken is the bearer token Handler accepts on user endpoints.
const ContractToken = "eyJhbGciOiJIUzI1NiJ9.contract.token"

// Handler serves the contracts on their API paths. User endpoints require
// ContractToken and answer 401 otherwise, like the real service.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", serve(ProductsContract))
	mux.HandleFunc("POST /indexes/location/search", serve(RegionFacetContract))
	mux.HandleFunc("POST /auth/local", serve(LoginContract))
	mux.HandleFunc("GET /users/orders", authorized(serve(OrdersContract)))
	mux.HandleFunc("GET /users/vouchers", authorized(serve(VouchersContract)))
	mux.HandleFunc("PUT /users/me", authorized(serve(`{"id": 42}`)))
	return mux
}

func serve(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+ContractToken {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"status": 401, "name": "UnauthorizedError", "message": "Missing or invalid credentials"}}`))
			return
		}
		next(w, r)
	}
}
