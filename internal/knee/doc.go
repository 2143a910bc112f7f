// Package knee locates the knee of an accuracy versus resolution curve.
//
// A curve is a set of points whose X is the degradation factor of an
// evaluated resolution and whose Y is the mAP measured there. The knee is
// found with the Kneedle algorithm (concave, increasing, online) and can be
// refined by bisecting around it, probing new resolutions through a caller
// supplied function.
package knee
