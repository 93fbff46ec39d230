//go:build verify_reflections
// +build verify_reflections

package laser

import (
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
)

const (
	lengthEpsilon = 1e-7
	angleEpsilon  = 1e-7
)

func init() {
	fmt.Println("Reflection verification enabled.")
}

// verifyReflectionLaw panics unless the outgoing direction leaves the mirror
// at the angle the incoming one arrived at and keeps unit length.
func verifyReflectionLaw(incident, normal, reflected pt.Vector) {
	if math.Abs(reflected.Dot(normal)+incident.Dot(normal)) > angleEpsilon {
		panic(fmt.Sprintf("angle of reflection differs from angle of incidence: in %v out %v n %v", incident, reflected, normal))
	}
	if math.Abs(reflected.Length()-incident.Length()) > lengthEpsilon {
		panic(fmt.Sprintf("reflection changed beam length: in %v out %v", incident, reflected))
	}
}
