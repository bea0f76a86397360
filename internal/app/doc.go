// Package app assembles the comparison pipeline from configuration.
package app
