package flight_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/services/flight_service"
	"github.com/joy095/gowafly/services/pricing_service"
	"github.com/joy095/gowafly/utils"
	"github.com/joy095/gowafly/utils/validation"
)

// FlightController serves the public flight endpoints.
type FlightController struct {
	flights *flight_service.Service
}

func NewFlightController(flights *flight_service.Service) *FlightController {
	return &FlightController{flights: flights}
}

type searchRequest struct {
	From       string `form:"from" binding:"omitempty,iata"`
	To         string `form:"to" binding:"omitempty,iata"`
	Date       string `form:"date"`
	ReturnDate string `form:"returnDate"`
	CabinClass string `form:"cabinClass" binding:"omitempty,cabin"`
	Adults     *int   `form:"adults"`
	Children   int    `form:"children"`
	Infants    int    `form:"infants"`
}

func (r searchRequest) passengers() pricing_service.PassengerCounts {
	p := pricing_service.PassengerCounts{Adults: 1, Children: r.Children, Infants: r.Infants}
	if r.Adults != nil {
		p.Adults = *r.Adults
	}
	return p
}

// SearchFlights looks up outbound (and optionally return) flights for a route and date.
func (fc *FlightController) SearchFlights(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	cabin, err := pricing_service.ParseCabinClass(req.CabinClass)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	passengers := req.passengers()
	if err := passengers.Validate(); err != nil {
		utils.RespondError(c, err)
		return
	}

	result, err := fc.flights.Search(c.Request.Context(), flight_service.SearchQuery{
		From:       req.From,
		To:         req.To,
		Date:       req.Date,
		ReturnDate: req.ReturnDate,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	logger.InfoLogger.Infof("Search %s-%s on %s returned %d outbound and %d return flights",
		req.From, req.To, req.Date, len(result.Flights), len(result.ReturnFlights))
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"count":         len(result.Flights),
		"data":          result.Flights,
		"returnFlights": result.ReturnFlights,
		"searchParams": gin.H{
			"from":       req.From,
			"to":         req.To,
			"date":       req.Date,
			"returnDate": req.ReturnDate,
			"cabinClass": cabin,
			"passengers": passengers,
		},
	})
}

// GetFlightDetails resolves a flight by store id or provider flight id.
func (fc *FlightController) GetFlightDetails(c *gin.Context) {
	flight, err := fc.flights.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": flight})
}

// GetFlightStatus returns live status for a flight number.
func (fc *FlightController) GetFlightStatus(c *gin.Context) {
	flight, err := fc.flights.Status(c.Request.Context(), c.Param("flightNumber"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": flight})
}

func (fc *FlightController) GetPopularRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": fc.flights.Popular()})
}

// QuotePrice prices the requested legs for a cabin and passenger mix.
func (fc *FlightController) QuotePrice(c *gin.Context) {
	var req flight_service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	quote, err := fc.flights.Quote(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": quote})
}
