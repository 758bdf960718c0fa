// Package courier provides the Courier aggregate: a delivery actor that can be assigned
// to orders and carries a running average rating recomputed from completed orders.
package courier
