package align

import (
	"strings"

	"github.com/ctessum/geom/proj"
)

// crsDigits is the precision used when comparing parsed projection parameters.
const crsDigits = 8

// reconcile decides how points on the reference CRS map onto the other CRS.
// A nil Transformer with a nil error means both rasters share a CRS.
func reconcile(ref, other string, refSrc, otherSrc string) (proj.Transformer, error) {
	fail := func(reason string) error {
		return &IncompatibleCRSError{Reference: refSrc, Other: otherSrc, Reason: reason}
	}

	a, b := normalizeCRS(ref), normalizeCRS(other)
	switch {
	case a == b:
		return nil, nil
	case a == "":
		return nil, fail("reference raster has no CRS")
	case b == "":
		return nil, fail("raster has no CRS")
	}

	srcSR, err := proj.Parse(ref)
	if err != nil {
		return nil, fail("parsing reference CRS: " + err.Error())
	}
	dstSR, err := proj.Parse(other)
	if err != nil {
		return nil, fail("parsing CRS: " + err.Error())
	}
	if srcSR.Equal(dstSR, crsDigits) {
		return nil, nil
	}
	tr, err := srcSR.NewTransform(dstSR)
	if err != nil {
		return nil, fail("building transformation: " + err.Error())
	}
	return tr, nil
}

// normalizeCRS collapses whitespace so cosmetic differences in WKT layout
// compare equal.
func normalizeCRS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AreaUnit names the squared ground unit of crs for area reporting. A CRS
// without a recognisable linear unit reports "units²".
func AreaUnit(crs string) string {
	if normalizeCRS(crs) == "" {
		return "units²"
	}
	sr, err := proj.Parse(crs)
	if err != nil {
		return "units²"
	}
	switch {
	case sr.Name == "longlat":
		return "deg²"
	case sr.ToMeter == 1:
		return "m²"
	case sr.Units != "":
		return sr.Units + "²"
	}
	return "units²"
}
