package similarity_test

import (
	"math"
	"testing"

	"github.com/okian/cricsim/internal/domain/similarity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEuclidean(t *testing.T) {
	Convey("Euclidean distance", t, func() {
		Convey("is zero for identical vectors", func() {
			So(similarity.Euclidean([]float64{36.2, 129.9}, []float64{36.2, 129.9}), ShouldEqual, 0.0)
		})

		Convey("is symmetric", func() {
			a := []float64{195, 7.45, 22.1, 157, 11}
			b := []float64{184, 6.78, 42.3, 113, 14}
			So(similarity.Euclidean(a, b), ShouldEqual, similarity.Euclidean(b, a))
		})

		Convey("works on raw unscaled features", func() {
			So(similarity.Euclidean([]float64{0, 0}, []float64{3, 4}), ShouldEqual, 5.0)
			d := similarity.Euclidean([]float64{195, 7.45, 22.1}, []float64{184, 6.78, 42.3})
			So(d, ShouldAlmostEqual, math.Sqrt(529.4889), 1e-9)
		})
	})
}
