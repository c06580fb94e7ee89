package core

// IrradianceBlock is one immutable sample in the Ward-style irradiance
// cache (spec.md §3 "Irradiance Cache Block"): a gathered hemisphere result
// at a point, together with the statistics that let nearby shading points
// decide whether to reuse it or gather afresh.
type IrradianceBlock struct {
	Point      Vec3
	Normal     Vec3
	Irradiance Vec3 // aggregated RGB from the hemisphere gather
	Depth      int  // recursion/bounce depth this sample was gathered at

	MeanDistance     float64 // harmonic mean of hit distances from the gather
	NearestDistance  float64
	ToNearestSurface Vec3 // unit vector from Point toward the nearest hit

	// GradientX/Y/Z hold the translational color gradient (d{R,G,B}/d{x,y,z})
	// used to linearly extrapolate Irradiance for a nearby reuse point.
	GradientX, GradientY, GradientZ Vec3
}

// Radius returns the influence sphere radius this block should be inserted
// into the octree with, per spec.md §4.2 Gather ("insert into the octree at
// a node sized by harmonic_mean × error_bound").
func (b *IrradianceBlock) Radius(errorBound float64) float64 {
	return b.MeanDistance * errorBound
}
