// Package api serves the CDC admin console REST API.
//
//	@title						CDC Console API
//	@version					1.0
//	@description				Admin console for CDC connections and ETL pipelines
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package api
