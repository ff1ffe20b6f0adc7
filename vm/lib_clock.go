package vm

func newClockLibrary() *Library {
	lib := newLibrary("Clock", "The current date and time.")

	lib.Properties["Time"] = getter("The current time as hh:mm:ss.", func(e *Engine) Value {
		return StringValue(e.clock().Format("15:04:05"))
	})
	lib.Properties["Date"] = getter("The current date as MM/DD/YYYY.", func(e *Engine) Value {
		return StringValue(e.clock().Format("01/02/2006"))
	})
	lib.Properties["Year"] = getter("The current year.", func(e *Engine) Value {
		return NumberValue(e.clock().Year())
	})
	lib.Properties["Month"] = getter("The current month, 1 to 12.", func(e *Engine) Value {
		return NumberValue(int(e.clock().Month()))
	})
	lib.Properties["Day"] = getter("The current day of the month.", func(e *Engine) Value {
		return NumberValue(e.clock().Day())
	})
	lib.Properties["WeekDay"] = getter("The name of the current day of the week.", func(e *Engine) Value {
		return StringValue(e.clock().Weekday().String())
	})
	lib.Properties["Hour"] = getter("The current hour, 0 to 23.", func(e *Engine) Value {
		return NumberValue(e.clock().Hour())
	})
	lib.Properties["Minute"] = getter("The current minute.", func(e *Engine) Value {
		return NumberValue(e.clock().Minute())
	})
	lib.Properties["Second"] = getter("The current second.", func(e *Engine) Value {
		return NumberValue(e.clock().Second())
	})
	lib.Properties["Millisecond"] = getter("The current millisecond.", func(e *Engine) Value {
		return NumberValue(e.clock().Nanosecond() / 1e6)
	})
	lib.Properties["ElapsedMilliseconds"] = getter("Milliseconds since the program started.", func(e *Engine) Value {
		return NumberValue(e.clock().Sub(e.start).Milliseconds())
	})

	return lib
}
