package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cwt/internal/testutil"
)

const (
	// Test synthesis parameters
	testFS         = 100.0
	testWidth      = 0.5
	testSizeFactor = 1.0

	// Test tolerances
	symmetryTolerance = 1e-12
)

func testParams() MorletParams {
	return MorletParams{
		Width:        testWidth,
		InitialWidth: testWidth,
		FS:           testFS,
		SizeFactor:   testSizeFactor,
	}
}

func testScaleSet(t *testing.T) ScaleSet {
	t.Helper()
	set, err := GeometricScales(testLowerFreq, testUpperFreq, testNScales3)
	require.NoError(t, err)
	return set
}

// TestBuildMorletBank_Shape verifies kernel geometry.
func TestBuildMorletBank_Shape(t *testing.T) {
	set := testScaleSet(t)
	bank, err := BuildMorletBank(set, testParams())
	require.NoError(t, err)

	assert.Equal(t, testNScales3, bank.NScales())
	assert.Equal(t, 1, bank.KernelSize()%2, "kernel size must be odd")

	for si := range bank.Real {
		assert.Len(t, bank.Real[si], bank.KernelSize())
		assert.Len(t, bank.Imag[si], bank.KernelSize())
		testutil.AssertOddLength(t, bank.Real[si])
	}
}

// TestBuildMorletBank_Symmetry verifies the even/odd structure of every
// scale column: cos-modulated taps are even about the center, sin-modulated
// taps are odd.
func TestBuildMorletBank_Symmetry(t *testing.T) {
	set := testScaleSet(t)
	bank, err := BuildMorletBank(set, testParams())
	require.NoError(t, err)

	for si := range bank.Real {
		testutil.AssertSymmetric(t, bank.Real[si], symmetryTolerance, "scale %d", si)
		testutil.AssertAntisymmetric(t, bank.Imag[si], symmetryTolerance, "scale %d", si)
		testutil.AssertNoNaNOrInf(t, bank.Real[si])
		testutil.AssertNoNaNOrInf(t, bank.Imag[si])
	}
}

// TestBuildMorletBank_CenterTap verifies the envelope peaks at the center
// of the real part (carrier cos(0) = 1 there).
func TestBuildMorletBank_CenterTap(t *testing.T) {
	set := testScaleSet(t)
	bank, err := BuildMorletBank(set, testParams())
	require.NoError(t, err)

	for si := range bank.Real {
		testutil.AssertCenterIsMax(t, bank.Real[si])
	}
}

// TestBuildMorletBank_Deterministic verifies that two builds with identical
// parameters produce bit-identical taps. The bank is rebuilt on every
// forward pass, so any nondeterminism here would make runs irreproducible.
func TestBuildMorletBank_Deterministic(t *testing.T) {
	set := testScaleSet(t)

	bank1, err := BuildMorletBank(set, testParams())
	require.NoError(t, err)
	bank2, err := BuildMorletBank(set, testParams())
	require.NoError(t, err)

	for si := range bank1.Real {
		for k := range bank1.Real[si] {
			assert.Equal(t, bank1.Real[si][k], bank2.Real[si][k], "real[%d][%d]", si, k)
			assert.Equal(t, bank1.Imag[si][k], bank2.Imag[si][k], "imag[%d][%d]", si, k)
		}
	}
}

// TestBuildMorletBank_SupportFixedByInitialWidth verifies that the kernel
// support depends only on the initial width: retraining the current width
// must not change the kernel size.
func TestBuildMorletBank_SupportFixedByInitialWidth(t *testing.T) {
	set := testScaleSet(t)

	base := testParams()
	grown := base
	grown.Width = base.Width * 4

	bankBase, err := BuildMorletBank(set, base)
	require.NoError(t, err)
	bankGrown, err := BuildMorletBank(set, grown)
	require.NoError(t, err)

	assert.Equal(t, bankBase.KernelSize(), bankGrown.KernelSize(),
		"kernel support must be sized from the initial width only")

	// A larger sizing width must enlarge the support.
	wider := base
	wider.InitialWidth = base.InitialWidth * 4
	wider.Width = base.Width
	bankWider, err := BuildMorletBank(set, wider)
	require.NoError(t, err)
	assert.Greater(t, bankWider.KernelSize(), bankBase.KernelSize())
}

// TestBuildMorletBank_SizeFactor verifies truncation relaxation.
func TestBuildMorletBank_SizeFactor(t *testing.T) {
	set := testScaleSet(t)

	relaxed := testParams()
	relaxed.SizeFactor = 2.0

	bankBase, err := BuildMorletBank(set, testParams())
	require.NoError(t, err)
	bankRelaxed, err := BuildMorletBank(set, relaxed)
	require.NoError(t, err)

	assert.Greater(t, bankRelaxed.KernelSize(), bankBase.KernelSize())
}

// TestMorletParams_Validate tests parameter validation.
func TestMorletParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MorletParams)
		wantErr bool
	}{
		{"valid", func(p *MorletParams) {}, false},
		{"zero_width", func(p *MorletParams) { p.Width = 0 }, true},
		{"negative_width", func(p *MorletParams) { p.Width = -1 }, true},
		{"zero_initial_width", func(p *MorletParams) { p.InitialWidth = 0 }, true},
		{"zero_fs", func(p *MorletParams) { p.FS = 0 }, true},
		{"negative_fs", func(p *MorletParams) { p.FS = -100 }, true},
		{"size_factor_below_one", func(p *MorletParams) { p.SizeFactor = 0.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams()
			tt.mutate(&params)
			err := params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestBuildMorletBank_EmptyScaleSet verifies rejection of an empty set.
func TestBuildMorletBank_EmptyScaleSet(t *testing.T) {
	_, err := BuildMorletBank(ScaleSet{}, testParams())
	assert.Error(t, err)
}

// BenchmarkBuildMorletBank benchmarks bank synthesis, which runs on every
// forward pass.
func BenchmarkBuildMorletBank(b *testing.B) {
	set, err := GeometricScales(testLowerFreq, testUpperFreq, testNScales16)
	if err != nil {
		b.Fatal(err)
	}
	params := testParams()

	b.ResetTimer()
	for b.Loop() {
		_, _ = BuildMorletBank(set, params)
	}
}
