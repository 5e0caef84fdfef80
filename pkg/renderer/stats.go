package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels   int           // Pixels traced
	PrimaryRays   int           // Camera rays, one per pixel
	SecondaryRays int           // Reflection and refraction rays spawned
	DepthLimited  int           // Rays cut off by the depth cap
	Duration      time.Duration // Wall time of the whole render
}

// Merge adds the counters of other into s. Duration is not summed.
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.PrimaryRays += other.PrimaryRays
	s.SecondaryRays += other.SecondaryRays
	s.DepthLimited += other.DepthLimited
}

// SecondaryPerPixel returns the average number of bounce rays per traced pixel
func (s RenderStats) SecondaryPerPixel() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.SecondaryRays) / float64(s.TotalPixels)
}
