package breeze

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuatFromRotationArc(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec3
	}{
		{"same", V3(1, 0, 0), V3(1, 0, 0)},
		{"quarter", V3(1, 0, 0), V3(0, 1, 0)},
		{"opposite x", V3(1, 0, 0), V3(-1, 0, 0)},
		{"opposite z", NegZ, V3(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromRotationArc(tt.from, tt.to)
			assertVec3(t, tt.to, q.Rotate(tt.from))
		})
	}
	assert.Equal(t, Identity, QuatFromRotationArc(NegZ, Zero3))
}

func TestQuatMulComposes(t *testing.T) {
	quarter := QuatFromRotationZ(math.Pi / 2)
	half := quarter.Mul(quarter)
	assertVec3(t, V3(-1, 0, 0), half.Rotate(V3(1, 0, 0)))
	assert.Equal(t, Identity, Quat{}.Normalize())
}

func TestTransformApply(t *testing.T) {
	tr := FromTranslation(V3(1, 2, 3)).
		WithRotation(QuatFromRotationZ(math.Pi / 2)).
		WithScale(V3(2, 1, 1))
	// Scale, then rotate, then translate.
	assertVec3(t, V3(1, 4, 3), tr.Apply(V3(1, 0, 0)))
	assert.Equal(t, V3(4, 5, 6), IdentityTransform.Apply(V3(4, 5, 6)))
}

func TestVecHelpers(t *testing.T) {
	assert.Equal(t, float32(5), V2(3, 4).Length())
	assert.Equal(t, V3(3, 4, 7), V2(3, 4).Extend(7))
	assert.Equal(t, Zero3, Zero3.NormalizeOrZero())
	assertVec3(t, V3(0, 1, 0), V3(0, 9, 0).NormalizeOrZero())
	assert.Equal(t, V3(0, 0, 1), V3(1, 0, 0).Cross(V3(0, 1, 0)))
}
