package game

import (
	"fmt"
	"math"

	"orbital-sim/backend/internal/physics"
)

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// SimulationClock накопитель симулированного времени в годах
type SimulationClock struct {
	elapsed float64
	running bool
}

// NewSimulationClock создает часы на нуле
func NewSimulationClock(running bool) *SimulationClock {
	return &SimulationClock{running: running}
}

// Advance добавляет dt лет, только если симуляция запущена
func (c *SimulationClock) Advance(dt float64) {
	if !c.running {
		return
	}
	c.elapsed += dt
}

// Elapsed прошедшее время в годах
func (c *SimulationClock) Elapsed() float64 {
	return c.elapsed
}

// Running флаг работы
func (c *SimulationClock) Running() bool {
	return c.running
}

// SetRunning устанавливает флаг работы
func (c *SimulationClock) SetRunning(running bool) {
	c.running = running
}

// Reset обнуляет накопитель, флаг работы не меняется
func (c *SimulationClock) Reset() {
	c.elapsed = 0
}

// Calendar календарное представление текущего времени
func (c *SimulationClock) Calendar() Calendar {
	return CalendarAt(c.elapsed)
}

// Calendar отображаемая дата. В физике не используется.
type Calendar struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"` // 1-12
	MonthName string `json:"month_name"`
	Day       int    `json:"day"`
	DayOfYear int    `json:"day_of_year"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
}

// CalendarAt переводит годы симуляции в календарную дату.
// Високосный февраль при year%4 == 0, без вековых исключений.
func CalendarAt(years float64) Calendar {
	totalDays := years * physics.DaysPerYear
	year := int(math.Floor(years))
	dayOfYear := int(math.Floor(math.Mod(totalDays, physics.DaysPerYear))) + 1

	monthDays := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if year%4 == 0 {
		monthDays[1] = 29
	}

	month, day := 0, dayOfYear
	for month < 11 && day > monthDays[month] {
		day -= monthDays[month]
		month++
	}
	// День 366 в невисокосном году
	if day > monthDays[month] {
		day = monthDays[month]
	}

	fracDay := totalDays - math.Floor(totalDays)
	totalHours := fracDay * 24
	hour := int(math.Floor(totalHours))
	minute := int(math.Floor((totalHours - float64(hour)) * 60))

	return Calendar{
		Year:      year,
		Month:     month + 1,
		MonthName: monthNames[month],
		Day:       day,
		DayOfYear: dayOfYear,
		Hour:      hour,
		Minute:    minute,
	}
}

// String формат "Mar 4, Year 2 07:30"
func (c Calendar) String() string {
	return fmt.Sprintf("%s %d, Year %d %02d:%02d", c.MonthName, c.Day, c.Year, c.Hour, c.Minute)
}
