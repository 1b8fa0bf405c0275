// Package storefront provides the REST client for the storefront backend API.
package storefront
