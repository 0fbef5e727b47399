package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/metrics"
	"github.com/Zachkp/folio/internal/scrollstate"
	"github.com/Zachkp/folio/internal/views"
)

type navLink struct {
	Name    string
	Section string
	Active  bool
}

type pageData struct {
	Site     *content.Site
	ViewID   string
	State    scrollstate.State
	Nav      []navLink
	MenuOpen bool
	OOB      bool
}

func navLinks(site *content.Site, active string) []navLink {
	links := make([]navLink, len(site.Nav))
	for i, item := range site.Nav {
		links[i] = navLink{Name: item.Name, Section: item.Section, Active: item.Section == active}
	}
	return links
}

func (s *Server) index(c *gin.Context) {
	site := s.site.Current()
	v, err := s.views.Open(c.Request.Context(), visitMeta(c))
	if err != nil {
		s.logger.Error("Error opening page view", zap.Error(err))
		c.String(http.StatusInternalServerError, "page layout is not configured")
		return
	}
	st := v.State()
	c.HTML(http.StatusOK, "index.html", pageData{
		Site:   site,
		ViewID: v.ID,
		State:  st,
		Nav:    navLinks(site, st.Active),
	})
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form.html", gin.H{"title": "Send me a message"})
}

func (s *Server) submitContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("decode contact form: %w", err))
		return
	}
	res := s.contact.Submit(c.Request.Context(), form)

	if c.ContentType() == gin.MIMEJSON {
		status := http.StatusOK
		switch {
		case len(res.Errors) > 0:
			status = http.StatusUnprocessableEntity
		case !res.OK:
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, res)
		return
	}
	// HTMX only swaps 2xx responses, so both fragments are sent with 200
	if res.OK {
		c.HTML(http.StatusOK, "contact-success.html", res)
		return
	}
	c.HTML(http.StatusOK, "contact-error.html", gin.H{"result": res, "form": form})
}

func (s *Server) menu(c *gin.Context) {
	site := s.site.Current()
	open, _ := strconv.ParseBool(c.Query("open"))
	active := ""
	if v, err := s.views.Get(c.Query("view")); err == nil {
		active = v.State().Active
	} else if len(site.Layout) > 0 {
		active = site.Layout[0].ID
	}
	c.HTML(http.StatusOK, "menu.html", pageData{
		Site:     site,
		ViewID:   c.Query("view"),
		Nav:      navLinks(site, active),
		MenuOpen: open,
	})
}

func (s *Server) viewState(c *gin.Context) {
	v, err := s.views.Get(c.Param("id"))
	if err != nil {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": v.State(), "sections": v.Sections()})
}

type layoutRequest struct {
	Sections []scrollstate.Section `json:"sections"`
}

func (s *Server) layout(c *gin.Context) {
	var req layoutRequest
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("decode layout: %w", err))
			return
		}
	} else if err := json.Unmarshal([]byte(c.PostForm("sections")), &req.Sections); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("decode layout sections: %w", err))
		return
	}
	for _, sec := range req.Sections {
		if !s.knownSection(sec.ID) || !finite(sec.OffsetTop) || sec.OffsetTop < 0 {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid section %+v", sec))
			return
		}
	}
	st, err := s.views.Dispatch(c.Param("id"), scrollstate.LayoutEvent{Sections: req.Sections})
	if err != nil {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) scroll(c *gin.Context) {
	var ev scrollstate.ScrollEvent
	if err := c.ShouldBind(&ev); err != nil || !finite(ev.Y) {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid scroll offset: %v", err))
		return
	}
	id := c.Param("id")
	st, err := s.views.Dispatch(id, ev)
	if err != nil {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	if !isHTMX(c) {
		c.JSON(http.StatusOK, st)
		return
	}
	site := s.site.Current()
	c.HTML(http.StatusOK, "nav.html", pageData{
		Site:   site,
		ViewID: id,
		State:  st,
		Nav:    navLinks(site, st.Active),
		OOB:    true,
	})
}

func (s *Server) intersect(c *gin.Context) {
	var ev scrollstate.IntersectionEvent
	if err := c.ShouldBind(&ev); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("decode intersection: %w", err))
		return
	}
	if !s.knownSection(ev.Region) || !finite(ev.Ratio) || ev.Ratio < 0 || ev.Ratio > 1 {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid intersection %+v", ev))
		return
	}
	id := c.Param("id")
	v, err := s.views.Get(id)
	if err != nil {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	before := v.State().Seen[ev.Region]
	st, err := s.views.Dispatch(id, ev)
	if err != nil {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	seen := st.Seen[ev.Region]
	if seen && !before {
		trigger, _ := json.Marshal(map[string]string{"revealed": ev.Region})
		c.Header("HX-Trigger", string(trigger))
	}
	c.JSON(http.StatusOK, gin.H{"region": ev.Region, "seen": seen})
}

func (s *Server) closeView(c *gin.Context) {
	if err := s.views.Close(c.Request.Context(), c.Param("id"), metrics.CloseClient); err != nil {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) reach(c *gin.Context) {
	st, err := s.stats.Stats(c.Request.Context(), s.site.Current().SectionIDs())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// knownSection reports whether id is a section of the current site. Ids
// from the browser end up as metric labels and ledger rows, so anything
// else is rejected.
func (s *Server) knownSection(id string) bool {
	return id != "" && slices.Contains(s.site.Current().SectionIDs(), id)
}

// fail answers with a JSON error. Unknown views always map to 404.
func (s *Server) fail(c *gin.Context, status int, err error) {
	if errors.Is(err, views.ErrNotFound) {
		status = http.StatusNotFound
	}
	_ = c.Error(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
