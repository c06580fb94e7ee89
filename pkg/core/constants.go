package core

// BlackLevel is the threshold below which an RGB color is treated as zero
// for early-out tests (spec.md GLOSSARY — Black level).
const BlackLevel = 0.003

// ADCBailout is the default minimum ADC weight below which a ray is
// terminated without tracing (spec.md GLOSSARY — ADC).
const ADCBailout = 1.0 / 255.0

// DefaultMaxTraceLevel bounds recursion depth (spec.md §5).
const DefaultMaxTraceLevel = 5

// MaxTraceLevelHardLimit is the practical ceiling spec.md §9 cites.
const MaxTraceLevelHardLimit = 20

// Epsilon is the small positive ray-origin offset used to step a shadow or
// secondary ray off the surface it was just spawned from, avoiding
// immediate self-intersection.
const Epsilon = 1e-4
