package planner

import (
	"fmt"

	"github.com/framewright/autoreframe/pkg/types"
)

// Proposal is one frame's raw target suggestion. TrackID and ClassID are
// set only when the target came from a tracked entity; saliency and
// center fallbacks carry no identity. Downstream stages read the
// structured fields and never re-parse the reason text.
type Proposal struct {
	Point   types.Point
	Reason  string
	TrackID *int
	ClassID *int
}

// HasTrack reports whether the proposal targets a tracked entity.
func (p Proposal) HasTrack() bool {
	return p.TrackID != nil
}

// selectTarget chooses this frame's raw target by class priority:
// Face > Body > Object > saliency point > frame center. Within a class
// the largest box wins; equal areas fall back to the lowest track id so
// selection never depends on input ordering.
func selectTarget(tracks []types.TrackedObject, saliency *types.Point, width, height int) Proposal {
	if face, ok := largestOfClass(tracks, types.ClassFace); ok {
		return trackProposal(face, fmt.Sprintf("Face ID:%d", face.ID))
	}
	if body, ok := largestOfClass(tracks, types.ClassBody); ok {
		return trackProposal(body, fmt.Sprintf("Body ID:%d", body.ID))
	}
	if obj, ok := largestOfClass(tracks, types.ClassObject); ok {
		return trackProposal(obj, fmt.Sprintf("Obj ID:%d", obj.ID))
	}
	if saliency != nil {
		return Proposal{Point: *saliency, Reason: "Saliency"}
	}
	return Proposal{
		Point:  types.Point{X: width / 2, Y: height / 2},
		Reason: "Center (Default)",
	}
}

func trackProposal(obj types.TrackedObject, reason string) Proposal {
	id := obj.ID
	class := obj.ClassID
	return Proposal{
		Point:   framingPoint(obj),
		Reason:  reason,
		TrackID: &id,
		ClassID: &class,
	}
}

// framingPoint converts a tracked box into a camera target. Bodies are
// framed at 30% from the top of the box (head and shoulders) instead of
// the geometric center.
func framingPoint(obj types.TrackedObject) types.Point {
	if obj.ClassID == types.ClassBody {
		return types.Point{
			X: obj.Box.X + obj.Box.W/2,
			Y: obj.Box.Y + int(float64(obj.Box.H)*0.3),
		}
	}
	return obj.Box.Center()
}

func largestOfClass(tracks []types.TrackedObject, classID int) (types.TrackedObject, bool) {
	var best types.TrackedObject
	found := false
	for _, t := range tracks {
		if t.ClassID != classID {
			continue
		}
		if !found || t.Box.Area() > best.Box.Area() ||
			(t.Box.Area() == best.Box.Area() && t.ID < best.ID) {
			best = t
			found = true
		}
	}
	return best, found
}
