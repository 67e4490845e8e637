package products_test

import (
	"testing"

	"github.com/racedayai/planner/internal/domain/athlete"
	"github.com/racedayai/planner/internal/domain/course"
	"github.com/racedayai/planner/internal/domain/nutrition"
	"github.com/racedayai/planner/internal/domain/products"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalog(t *testing.T) {
	Convey("Given the embedded product catalog", t, func() {
		Convey("Known ids resolve", func() {
			p, ok := products.Lookup("gel-maurten-100")
			So(ok, ShouldBeTrue)
			So(p.Slot, ShouldEqual, products.SlotPrimaryGel)
			So(p.CarbsG, ShouldEqual, 25)
		})

		Convey("Unknown ids do not", func() {
			_, ok := products.Lookup("gel-does-not-exist")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSelect(t *testing.T) {
	rates := nutrition.Rates{CarbsGPerHour: 80, FluidMlPerHour: 650, SodiumMgPerHour: 700}

	Convey("Given a half-distance intermediate athlete", t, func() {
		stack := products.Select(rates, course.CategoryHalf, false, athlete.TierIntermediate, nil)

		Convey("Every slot is populated with a primary and ranked alternatives", func() {
			for _, slot := range products.Slots() {
				sel, ok := stack[slot]
				So(ok, ShouldBeTrue)
				So(sel.Primary.Slot, ShouldEqual, slot)
				So(len(sel.Alternatives), ShouldBeGreaterThan, 0)
				for _, alt := range sel.Alternatives {
					So(alt.Slot, ShouldEqual, slot)
					So(alt.ID, ShouldNotEqual, sel.Primary.ID)
				}
			}
		})
	})

	Convey("Given a sprint race", t, func() {
		stack := products.Select(rates, course.CategorySprint, false, athlete.TierBeginner, nil)

		Convey("The early-solid slot is omitted", func() {
			_, ok := stack[products.SlotEarlySolid]
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given hot conditions", t, func() {
		stack := products.Select(rates, course.CategoryHalf, true, athlete.TierIntermediate, nil)

		Convey("A heat-suited drink mix leads the slot", func() {
			So(stack[products.SlotDrinkMix].Primary.HeatSuited, ShouldBeTrue)
		})
	})

	Convey("Given a 90g/h carb target in cool conditions", t, func() {
		heavy := nutrition.Rates{CarbsGPerHour: 90, FluidMlPerHour: 500, SodiumMgPerHour: 500}
		stack := products.Select(heavy, course.CategoryFull, false, athlete.TierBeginner, nil)

		Convey("The high-carb mix is promoted regardless of tier", func() {
			So(stack[products.SlotDrinkMix].Primary.ID, ShouldEqual, "mix-maurten-320")
		})
	})

	Convey("Given per-slot overrides", t, func() {
		Convey("A valid override becomes the primary", func() {
			stack := products.Select(rates, course.CategoryHalf, false, athlete.TierAdvanced,
				map[products.Slot]string{products.SlotPrimaryGel: "gel-gu-original"})
			sel := stack[products.SlotPrimaryGel]
			So(sel.Primary.ID, ShouldEqual, "gel-gu-original")
			So(sel.Overridden, ShouldBeTrue)
			for _, alt := range sel.Alternatives {
				So(alt.ID, ShouldNotEqual, "gel-gu-original")
			}
		})

		Convey("An unknown override id falls back to the computed default", func() {
			stack := products.Select(rates, course.CategoryHalf, false, athlete.TierAdvanced,
				map[products.Slot]string{products.SlotPrimaryGel: "gel-vaporware"})
			sel := stack[products.SlotPrimaryGel]
			So(sel.Primary.ID, ShouldEqual, "gel-precision-30")
			So(sel.Overridden, ShouldBeFalse)
		})

		Convey("An id from the wrong slot is ignored", func() {
			stack := products.Select(rates, course.CategoryHalf, false, athlete.TierAdvanced,
				map[products.Slot]string{products.SlotDrinkMix: "gel-maurten-100"})
			So(stack[products.SlotDrinkMix].Primary.ID, ShouldEqual, "mix-maurten-320")
		})
	})

	Convey("Given an unrecognized experience tier", t, func() {
		stack := products.Select(rates, course.CategoryOlympic, false, athlete.ExperienceTier("elite"), nil)

		Convey("The intermediate table applies", func() {
			So(stack[products.SlotPrimaryGel].Primary.ID, ShouldEqual, "gel-maurten-100")
		})
	})
}
