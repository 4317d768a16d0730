// Package utils holds small helpers shared by the HTTP and asset layers.
package utils
