package middleware

import (
	"net/http"

	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているロールにADMINが含まれるか確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRoles := c.Get(CtxUserRolesKey)
			roles, ok := rawRoles.([]string)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//ADMINだけ許可
			for _, r := range roles {
				if r == model.RoleAdmin {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, errorJSON("admin only"))
		}
	}
}
