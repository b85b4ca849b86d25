package util

import (
	"reflect"
)

// Clamp limits x to the range [min, max]. Sensor readings outside their
// domain are clamped rather than rejected.
func Clamp(x float64, min float64, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// ExhaustChan recieves from a chan until it is closed. c must be a chan
func ExhaustChan(c interface{}) {
	ch := reflect.ValueOf(c)
	if ch.Kind() != reflect.Chan {
		Logger.Panicf("expected channel, received %v", ch.Kind())
	}
	ok := true
	for ok {
		_, ok = ch.TryRecv()
	}
}
